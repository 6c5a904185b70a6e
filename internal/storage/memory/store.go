// Package memory provides a process-local storage.Store for development and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type userRow struct {
	models.User
	token *string
}

// Store keeps every table in maps guarded by a single mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*userRow
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	nextID   int64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*userRow),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		now:      time.Now,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.users {
		if row.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	now := s.now()
	user.ID = s.id()
	user.IsActive = true
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = &userRow{User: user}
	return user, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return row.User, nil
}

func (s *Store) FindActiveByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.users {
		if row.Email == email && row.IsActive {
			return row.User, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, row := range s.users {
		if id != exceptID && row.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListUsers(_ context.Context, page models.PageRequest) ([]models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.User
	for _, row := range s.users {
		if row.IsActive && containsAny(page.Search, row.FirstName, row.LastName, row.Email) {
			matched = append(matched, row.User)
		}
	}
	slices.SortFunc(matched, func(a, b models.User) int { return compareID(a.ID, b.ID) })
	return paginate(matched, page), len(matched), nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if patch.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Email == *patch.Email {
				return models.User{}, storage.ErrAlreadyExists
			}
		}
		row.Email = *patch.Email
	}
	if patch.FirstName != nil {
		row.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		row.LastName = *patch.LastName
	}
	row.UpdatedAt = s.now()
	return row.User, nil
}

func (s *Store) DeactivateUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	row.IsActive = false
	row.token = nil
	row.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetToken(_ context.Context, id int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok || !row.IsActive {
		return storage.ErrNotFound
	}
	row.token = &token
	row.UpdatedAt = s.now()
	return nil
}

func (s *Store) FindBySession(_ context.Context, id int64, token string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.users[id]
	if !ok || !row.IsActive || row.token == nil || *row.token != token {
		return models.User{}, storage.ErrNotFound
	}
	return row.User, nil
}

func (s *Store) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	post.ID = s.id()
	post.IsActive = true
	post.CreatedAt, post.UpdatedAt = now, now
	stored := post
	s.posts[post.ID] = &stored
	return post, nil
}

func (s *Store) FindPost(_ context.Context, id int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	return *post, nil
}

func (s *Store) ListPosts(_ context.Context, authorID int64, page models.PageRequest) ([]models.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Post
	for _, post := range s.posts {
		if post.AuthorID == authorID && post.IsActive && containsAny(page.Search, post.Title, post.Content) {
			matched = append(matched, *post)
		}
	}
	slices.SortFunc(matched, func(a, b models.Post) int { return compareID(b.ID, a.ID) })
	return paginate(matched, page), len(matched), nil
}

func (s *Store) UpdatePost(_ context.Context, id int64, patch models.PostPatch) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	post.UpdatedAt = s.now()
	return *post, nil
}

func (s *Store) DeactivatePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return storage.ErrNotFound
	}
	post.IsActive = false
	post.UpdatedAt = s.now()
	return nil
}

func (s *Store) CreateComment(_ context.Context, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	now := s.now()
	comment.ID = s.id()
	comment.IsActive = true
	comment.CreatedAt, comment.UpdatedAt = now, now
	comment.Post = nil
	stored := comment
	s.comments[comment.ID] = &stored
	return comment, nil
}

func (s *Store) FindComment(_ context.Context, id int64) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	return *comment, nil
}

func (s *Store) ListComments(_ context.Context, authorID int64, page models.PageRequest) ([]models.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Comment
	for _, comment := range s.comments {
		if comment.AuthorID != authorID || !comment.IsActive {
			continue
		}
		c := *comment
		if post, ok := s.posts[c.PostID]; ok {
			p := *post
			c.Post = &p
		}
		matched = append(matched, c)
	}
	slices.SortFunc(matched, func(a, b models.Comment) int { return compareID(b.ID, a.ID) })
	return paginate(matched, page), len(matched), nil
}

func (s *Store) UpdateComment(_ context.Context, id int64, text string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	comment.Comment = text
	comment.UpdatedAt = s.now()
	return *comment, nil
}

func (s *Store) DeactivateComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return storage.ErrNotFound
	}
	comment.IsActive = false
	comment.UpdatedAt = s.now()
	return nil
}

func containsAny(search string, fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func paginate[T any](items []T, page models.PageRequest) []T {
	start := min(max(page.Offset(), 0), len(items))
	end := min(start+page.Limit(), len(items))
	return items[start:end]
}
