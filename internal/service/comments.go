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
	ErrCommentPostMissing = apperror.BadRequest("Post doesn't exist so comment can't be posted")
	ErrCommentNotFound    = apperror.BadRequest("This comment doesn't exist")
	ErrCommentDeleted     = apperror.BadRequest("This comment already been deleted")
	ErrNotCommentOwner    = apperror.Forbidden("You can only modify your own comments")
)

// CommentStore is what the comment use cases read and write.
type CommentStore interface {
	storage.CommentStore
	FindPost(ctx context.Context, id int64) (models.Post, error)
}

type CommentService struct {
	store CommentStore
}

func NewCommentService(store CommentStore) *CommentService {
	return &CommentService{store: store}
}

// Create attaches a comment to an active post.
func (s *CommentService) Create(ctx context.Context, caller auth.Principal, req dto.CreateCommentRequest) (models.Comment, error) {
	post, err := s.store.FindPost(ctx, req.PostID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Comment{}, ErrCommentPostMissing
	case err != nil:
		return models.Comment{}, apperror.Internal("failed to fetch post", err)
	case !post.IsActive:
		return models.Comment{}, ErrCommentPostMissing
	}

	comment, err := s.store.CreateComment(ctx, models.Comment{
		Comment:  req.Comment,
		PostID:   req.PostID,
		AuthorID: caller.UserID,
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Comment{}, ErrCommentPostMissing
	case err != nil:
		return models.Comment{}, apperror.Internal("failed to create comment", err)
	}
	return comment, nil
}

// List returns the caller's active comments, each with its post.
func (s *CommentService) List(ctx context.Context, caller auth.Principal, page models.PageRequest) (models.Page[models.Comment], error) {
	comments, total, err := s.store.ListComments(ctx, caller.UserID, page)
	if err != nil {
		return models.Page[models.Comment]{}, apperror.Internal("failed to list comments", err)
	}
	return models.NewPage(page, total, comments), nil
}

func (s *CommentService) Update(ctx context.Context, caller auth.Principal, req dto.UpdateCommentRequest) (models.Comment, error) {
	comment, err := s.find(ctx, req.CommentID)
	if err != nil {
		return models.Comment{}, err
	}
	if !comment.IsActive {
		return models.Comment{}, ErrCommentNotFound
	}
	if comment.AuthorID != caller.UserID {
		return models.Comment{}, ErrNotCommentOwner
	}

	updated, err := s.store.UpdateComment(ctx, req.CommentID, req.Comment)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Comment{}, ErrCommentNotFound
	case err != nil:
		return models.Comment{}, apperror.Internal("failed to update comment", err)
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, caller auth.Principal, id int64) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !comment.IsActive {
		return ErrCommentDeleted
	}
	if comment.AuthorID != caller.UserID {
		return ErrNotCommentOwner
	}

	if err := s.store.DeactivateComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		return apperror.Internal("failed to delete comment", err)
	}
	return nil
}

func (s *CommentService) find(ctx context.Context, id int64) (models.Comment, error) {
	comment, err := s.store.FindComment(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Comment{}, ErrCommentNotFound
	case err != nil:
		return models.Comment{}, apperror.Internal("failed to fetch comment", err)
	}
	return comment, nil
}
