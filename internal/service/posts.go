package service

import (
	"context"
	"errors"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/storage"
)

var (
	ErrPostNotFound = apperror.BadRequest("This post doesn't exist")
	ErrPostDeleted  = apperror.BadRequest("This post already been deleted")
	ErrNotPostOwner = apperror.Forbidden("You can only modify your own posts")
)

type PostService struct {
	store storage.PostStore
}

func NewPostService(store storage.PostStore) *PostService {
	return &PostService{store: store}
}

func (s *PostService) Create(ctx context.Context, caller auth.Principal, req dto.CreatePostRequest) (models.Post, error) {
	post, err := s.store.CreatePost(ctx, models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: caller.UserID,
	})
	if err != nil {
		return models.Post{}, apperror.Internal("failed to create post", err)
	}
	return post, nil
}

// List returns the caller's own active posts.
func (s *PostService) List(ctx context.Context, caller auth.Principal, page models.PageRequest) (models.Page[models.Post], error) {
	posts, total, err := s.store.ListPosts(ctx, caller.UserID, page)
	if err != nil {
		return models.Page[models.Post]{}, apperror.Internal("failed to list posts", err)
	}
	return models.NewPage(page, total, posts), nil
}

func (s *PostService) Update(ctx context.Context, caller auth.Principal, req dto.UpdatePostRequest) (models.Post, error) {
	post, err := s.find(ctx, req.ID)
	if err != nil {
		return models.Post{}, err
	}
	if !post.IsActive {
		return models.Post{}, ErrPostNotFound
	}
	if post.AuthorID != caller.UserID {
		return models.Post{}, ErrNotPostOwner
	}

	updated, err := s.store.UpdatePost(ctx, req.ID, req.Patch())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Post{}, ErrPostNotFound
	case err != nil:
		return models.Post{}, apperror.Internal("failed to update post", err)
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, caller auth.Principal, id int64) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsActive {
		return ErrPostDeleted
	}
	if post.AuthorID != caller.UserID {
		return ErrNotPostOwner
	}

	if err := s.store.DeactivatePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPostNotFound
		}
		return apperror.Internal("failed to delete post", err)
	}
	return nil
}

func (s *PostService) find(ctx context.Context, id int64) (models.Post, error) {
	post, err := s.store.FindPost(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Post{}, ErrPostNotFound
	case err != nil:
		return models.Post{}, apperror.Internal("failed to fetch post", err)
	}
	return post, nil
}
