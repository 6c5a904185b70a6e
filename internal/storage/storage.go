package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/blog-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence, including the single stored session token.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindByID returns the user regardless of its active flag.
	FindByID(ctx context.Context, id int64) (models.User, error)
	// FindActiveByEmail returns the active user owning email.
	FindActiveByEmail(ctx context.Context, email string) (models.User, error)
	// EmailTaken reports whether another user (any state) owns email.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	ListUsers(ctx context.Context, page models.PageRequest) ([]models.User, int, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error)
	DeactivateUser(ctx context.Context, id int64) error

	// SetToken overwrites the user's current token.
	SetToken(ctx context.Context, id int64, token string) error
	// FindBySession returns the active user whose id and stored token both match.
	FindBySession(ctx context.Context, id int64, token string) (models.User, error)
}

// PostStore captures post persistence.
type PostStore interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	FindPost(ctx context.Context, id int64) (models.Post, error)
	ListPosts(ctx context.Context, authorID int64, page models.PageRequest) ([]models.Post, int, error)
	UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (models.Post, error)
	DeactivatePost(ctx context.Context, id int64) error
}

// CommentStore captures comment persistence.
type CommentStore interface {
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	FindComment(ctx context.Context, id int64) (models.Comment, error)
	// ListComments returns the author's active comments with their posts attached.
	ListComments(ctx context.Context, authorID int64, page models.PageRequest) ([]models.Comment, int, error)
	UpdateComment(ctx context.Context, id int64, text string) (models.Comment, error)
	DeactivateComment(ctx context.Context, id int64) error
}

// Store bundles every repository the server needs.
type Store interface {
	UserStore
	PostStore
	CommentStore
	Ping(ctx context.Context) error
	Close()
}
