// Package service holds the user, post and comment use cases behind the HTTP handlers.
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
	ErrEmailTaken      = apperror.Conflict("User email have been already taken")
	ErrUserNotFound    = apperror.BadRequest("This user doesn't exist")
	ErrUserDeleted     = apperror.BadRequest("This user already been deleted")
	ErrNotAccountOwner = apperror.Forbidden("You can only modify your own account")
)

type UserService struct {
	store  storage.UserStore
	hasher auth.PasswordHasher
}

func NewUserService(store storage.UserStore, hasher auth.PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Register creates an active user with a hashed password.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	taken, err := s.store.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return models.User{}, apperror.Internal("failed to check email", err)
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.User{}, apperror.Internal("failed to hash password", err)
	}

	created, err := s.store.CreateUser(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return models.User{}, ErrEmailTaken
	case err != nil:
		return models.User{}, apperror.Internal("failed to create user", err)
	}
	return created, nil
}

func (s *UserService) List(ctx context.Context, page models.PageRequest) (models.Page[models.User], error) {
	users, total, err := s.store.ListUsers(ctx, page)
	if err != nil {
		return models.Page[models.User]{}, apperror.Internal("failed to list users", err)
	}
	return models.NewPage(page, total, users), nil
}

// Update applies a partial update to the caller's own account.
func (s *UserService) Update(ctx context.Context, caller auth.Principal, req dto.UpdateUserRequest) (models.User, error) {
	if req.ID != caller.UserID {
		return models.User{}, ErrNotAccountOwner
	}
	if _, err := s.activeUser(ctx, req.ID); err != nil {
		return models.User{}, err
	}

	if req.Email != nil {
		taken, err := s.store.EmailTaken(ctx, *req.Email, req.ID)
		if err != nil {
			return models.User{}, apperror.Internal("failed to check email", err)
		}
		if taken {
			return models.User{}, ErrEmailTaken
		}
	}

	updated, err := s.store.UpdateUser(ctx, req.ID, req.Patch())
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return models.User{}, ErrEmailTaken
	case errors.Is(err, storage.ErrNotFound):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, apperror.Internal("failed to update user", err)
	}
	return updated, nil
}

// Delete soft-deletes the caller's own account and drops its session.
func (s *UserService) Delete(ctx context.Context, caller auth.Principal, id int64) error {
	if id != caller.UserID {
		return ErrNotAccountOwner
	}
	user, err := s.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrUserNotFound
	case err != nil:
		return apperror.Internal("failed to fetch user", err)
	case !user.IsActive:
		return ErrUserDeleted
	}

	if err := s.store.DeactivateUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return apperror.Internal("failed to delete user", err)
	}
	return nil
}

func (s *UserService) activeUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, apperror.Internal("failed to fetch user", err)
	case !user.IsActive:
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}
