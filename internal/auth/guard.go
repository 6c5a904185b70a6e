package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

var (
	ErrTokenMissing   = apperror.BadRequest("token missing")
	ErrSessionExpired = apperror.Unauthorized("token expired")
	ErrSessionInvalid = apperror.Unauthorized("token invalid")
	ErrInvalidSession = apperror.Unauthorized("invalid session")
)

// SessionStore resolves a user by id and the exact token stored on it.
type SessionStore interface {
	FindBySession(ctx context.Context, id int64, token string) (models.User, error)
}

// Principal identifies the caller of a protected request.
type Principal struct {
	UserID int64
	Email  string
}

// Guard admits a request only when its bearer token is validly signed, unexpired
// and still the token stored for the user.
type Guard struct {
	store  SessionStore
	tokens *TokenManager
}

func NewGuard(store SessionStore, tokens *TokenManager) *Guard {
	return &Guard{store: store, tokens: tokens}
}

// Authenticate checks an Authorization header value.
func (g *Guard) Authenticate(ctx context.Context, header string) (Principal, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return Principal{}, ErrTokenMissing
	}

	userID, err := g.tokens.Parse(raw)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return Principal{}, ErrSessionExpired
	case err != nil:
		return Principal{}, ErrSessionInvalid
	}

	user, err := g.store.FindBySession(ctx, userID, raw)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Principal{}, ErrInvalidSession
		}
		return Principal{}, apperror.Internal("failed to resolve session", err)
	}
	return Principal{UserID: user.ID, Email: user.Email}, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
