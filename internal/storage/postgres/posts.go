package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const postColumns = `id, title, content, author_id, is_active, created_at, updated_at`

// CreatePost inserts a new post row.
func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const query = `
		INSERT INTO posts (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING ` + postColumns
	created, err := scanPost(s.pool.QueryRow(ctx, query, post.Title, post.Content, post.AuthorID))
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return created, nil
}

// FindPost fetches a post by id regardless of its active flag.
func (s *Store) FindPost(ctx context.Context, id int64) (models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Post{}, lookupErr("find post", err)
	}
	return post, nil
}

// ListPosts returns one page of the author's active posts matching the search term.
func (s *Store) ListPosts(ctx context.Context, authorID int64, page models.PageRequest) ([]models.Post, int, error) {
	const filter = `FROM posts
		WHERE author_id = $1 AND is_active AND (title ILIKE $2 OR content ILIKE $2)`
	pattern := likePattern(page.Search)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) `+filter, authorID, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+postColumns+` `+filter+` ORDER BY id DESC LIMIT $3 OFFSET $4`,
		authorID, pattern, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

// UpdatePost applies the non-nil fields of patch.
func (s *Store) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (models.Post, error) {
	const query = `
		UPDATE posts SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	post, err := scanPost(s.pool.QueryRow(ctx, query, id, patch.Title, patch.Content))
	if err != nil {
		return models.Post{}, lookupErr("update post", err)
	}
	return post, nil
}

// DeactivatePost soft-deletes a post.
func (s *Store) DeactivatePost(ctx context.Context, id int64) error {
	const query = `UPDATE posts SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.IsActive, &post.CreatedAt, &post.UpdatedAt)
	return post, err
}
