package auth

import (
	"context"
	"errors"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

var (
	ErrEmailNotFound     = apperror.Unauthorized("email not found")
	ErrPasswordIncorrect = apperror.Unauthorized("password incorrect")
)

// CredentialStore is the slice of user persistence the login flow needs.
type CredentialStore interface {
	FindActiveByEmail(ctx context.Context, email string) (models.User, error)
	SetToken(ctx context.Context, id int64, token string) error
}

// Session is the result of a successful login.
type Session struct {
	User  models.User
	Token string
}

// LoginFlow authenticates credentials and stores the newly issued token on the user,
// replacing whatever token was there before.
type LoginFlow struct {
	store  CredentialStore
	hasher PasswordHasher
	tokens *TokenManager
}

func NewLoginFlow(store CredentialStore, hasher PasswordHasher, tokens *TokenManager) *LoginFlow {
	return &LoginFlow{store: store, hasher: hasher, tokens: tokens}
}

func (l *LoginFlow) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := l.store.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrEmailNotFound
		}
		return Session{}, apperror.Internal("failed to fetch user", err)
	}

	ok, err := l.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return Session{}, apperror.Internal("failed to verify password", err)
	}
	if !ok {
		return Session{}, ErrPasswordIncorrect
	}

	token, err := l.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, apperror.Internal("failed to generate token", err)
	}

	// A concurrent login may overwrite this token right after; last writer wins.
	if err := l.store.SetToken(ctx, user.ID, token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrEmailNotFound
		}
		return Session{}, apperror.Internal("failed to store token", err)
	}
	return Session{User: user, Token: token}, nil
}
