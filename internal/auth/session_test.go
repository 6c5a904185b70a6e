package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage/memory"
)

type fixture struct {
	store  *memory.Store
	tokens *TokenManager
	login  *LoginFlow
	guard  *Guard
	user   models.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hasher := &BcryptHasher{cost: bcrypt.MinCost}
	hash, err := hasher.Hash("Aa1!aaaa")
	require.NoError(t, err)

	store := memory.NewStore()
	user, err := store.CreateUser(context.Background(), models.User{
		FirstName: "Ann", LastName: "Lee", Email: "a@x.com", PasswordHash: hash,
	})
	require.NoError(t, err)

	tokens := NewTokenManager("secret", "blog-backend", TokenTTL)
	return fixture{
		store:  store,
		tokens: tokens,
		login:  NewLoginFlow(store, hasher, tokens),
		guard:  NewGuard(store, tokens),
		user:   user,
	}
}

func TestLogin_ThenGuardAccepts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.login.Login(ctx, "a@x.com", "Aa1!aaaa")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, sess.User.ID)
	assert.NotEmpty(t, sess.Token)

	p, err := f.guard.Authenticate(ctx, "Bearer "+sess.Token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: f.user.ID, Email: "a@x.com"}, p)
}

func TestLogin_SecondLoginSupersedesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.login.Login(ctx, "a@x.com", "Aa1!aaaa")
	require.NoError(t, err)
	second, err := f.login.Login(ctx, "a@x.com", "Aa1!aaaa")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = f.guard.Authenticate(ctx, "Bearer "+first.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = f.guard.Authenticate(ctx, "Bearer "+second.Token)
	assert.NoError(t, err)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.login.Login(ctx, "unknown@x.com", "anything")
	assert.ErrorIs(t, err, ErrEmailNotFound)
	assert.Equal(t, "email not found", apperror.PublicMessage(err))

	_, err = f.login.Login(ctx, "a@x.com", "wrongpass")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	assert.Equal(t, "password incorrect", apperror.PublicMessage(err))
}

func TestLogin_DeactivatedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.login.Login(ctx, "a@x.com", "Aa1!aaaa")
	require.NoError(t, err)
	require.NoError(t, f.store.DeactivateUser(ctx, f.user.ID))

	_, err = f.guard.Authenticate(ctx, "Bearer "+sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = f.login.Login(ctx, "a@x.com", "Aa1!aaaa")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

type failingStore struct{ err error }

func (s failingStore) FindActiveByEmail(context.Context, string) (models.User, error) {
	return models.User{}, s.err
}
func (s failingStore) SetToken(context.Context, int64, string) error { return s.err }
func (s failingStore) FindBySession(context.Context, int64, string) (models.User, error) {
	return models.User{}, s.err
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	tokens := NewTokenManager("secret", "blog-backend", TokenTTL)
	flow := NewLoginFlow(failingStore{err: errors.New("conn refused")}, NewBcryptHasher(), tokens)

	_, err := flow.Login(context.Background(), "a@x.com", "x")
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestGuard_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expiredTokens := NewTokenManager("secret", "blog-backend", TokenTTL)
	expiredTokens.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := expiredTokens.Issue(f.user.ID)
	require.NoError(t, err)
	// Expired tokens are refused even while still stored on the user.
	require.NoError(t, f.store.SetToken(ctx, f.user.ID, expired))

	forged, err := NewTokenManager("guess", "blog-backend", TokenTTL).Issue(f.user.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"no header", "", ErrTokenMissing},
		{"wrong scheme", "Basic abc", ErrTokenMissing},
		{"bearer without token", "Bearer ", ErrTokenMissing},
		{"expired", "Bearer " + expired, ErrSessionExpired},
		{"forged", "Bearer " + forged, ErrSessionInvalid},
		{"garbage", "Bearer abc.def.ghi", ErrSessionInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.guard.Authenticate(ctx, tt.header)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = f.guard.Authenticate(ctx, "")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestGuard_StoreFailureIsInternal(t *testing.T) {
	tokens := NewTokenManager("secret", "blog-backend", TokenTTL)
	token, err := tokens.Issue(1)
	require.NoError(t, err)

	_, err = NewGuard(failingStore{err: errors.New("timeout")}, tokens).Authenticate(context.Background(), "Bearer "+token)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: 3, Email: "c@x.com"})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), p.UserID)
}
