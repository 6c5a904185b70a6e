package memory

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ann, err := s.CreateUser(ctx, models.User{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.True(t, ann.IsActive)
	assert.NotZero(t, ann.ID)

	_, err = s.CreateUser(ctx, models.User{Email: "ann@x.com"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	bob, err := s.CreateUser(ctx, models.User{FirstName: "Bob", LastName: "Ray", Email: "bob@x.com"})
	require.NoError(t, err)

	taken, err := s.EmailTaken(ctx, "ann@x.com", bob.ID)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = s.EmailTaken(ctx, "ann@x.com", ann.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = s.UpdateUser(ctx, bob.ID, models.UserPatch{Email: strPtr("ann@x.com")})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	updated, err := s.UpdateUser(ctx, bob.ID, models.UserPatch{FirstName: strPtr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.FirstName)
	assert.Equal(t, "bob@x.com", updated.Email)

	users, total, err := s.ListUsers(ctx, models.PageRequest{Search: "ROB"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	require.NoError(t, s.DeactivateUser(ctx, ann.ID))
	_, err = s.FindActiveByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	found, err := s.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	assert.ErrorIs(t, s.DeactivateUser(ctx, 999), storage.ErrNotFound)
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, err := s.CreateUser(ctx, models.User{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = s.FindBySession(ctx, u.ID, "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SetToken(ctx, u.ID, "t1"))
	require.NoError(t, s.SetToken(ctx, u.ID, "t2"))

	_, err = s.FindBySession(ctx, u.ID, "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	got, err := s.FindBySession(ctx, u.ID, "t2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, s.DeactivateUser(ctx, u.ID))
	_, err = s.FindBySession(ctx, u.ID, "t2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.SetToken(ctx, u.ID, "t3"), storage.ErrNotFound)
}

func TestStore_PostsPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := range 12 {
		_, err := s.CreatePost(ctx, models.Post{Title: fmt.Sprintf("Go tip %d", i), Content: "body", AuthorID: 1})
		require.NoError(t, err)
	}
	_, err := s.CreatePost(ctx, models.Post{Title: "other author", AuthorID: 2})
	require.NoError(t, err)

	first, total, err := s.ListPosts(ctx, 1, models.PageRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, first, 10)
	assert.Equal(t, "Go tip 11", first[0].Title)

	second, _, err := s.ListPosts(ctx, 1, models.PageRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second, 2)

	beyond, _, err := s.ListPosts(ctx, 1, models.PageRequest{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	for _, n := range []int{922337203685477582, math.MaxInt} {
		huge, total, err := s.ListPosts(ctx, 1, models.PageRequest{Page: n})
		require.NoError(t, err)
		assert.Empty(t, huge)
		assert.Equal(t, 12, total)
	}

	matched, total, err := s.ListPosts(ctx, 1, models.PageRequest{Search: "tip 1"})
	require.NoError(t, err)
	assert.Equal(t, 3, total) // 1, 10, 11
	assert.Len(t, matched, 3)

	updated, err := s.UpdatePost(ctx, first[0].ID, models.PostPatch{Content: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "Go tip 11", updated.Title)
	assert.Equal(t, "new", updated.Content)

	require.NoError(t, s.DeactivatePost(ctx, first[0].ID))
	_, total, err = s.ListPosts(ctx, 1, models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 11, total)

	_, err = s.FindPost(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Comments(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	post, err := s.CreatePost(ctx, models.Post{Title: "t", Content: "c", AuthorID: 1})
	require.NoError(t, err)

	_, err = s.CreateComment(ctx, models.Comment{Comment: "x", PostID: 999, AuthorID: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	c, err := s.CreateComment(ctx, models.Comment{Comment: "hello", PostID: post.ID, AuthorID: 1})
	require.NoError(t, err)
	assert.Nil(t, c.Post)

	list, total, err := s.ListComments(ctx, 1, models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Post)
	assert.Equal(t, "t", list[0].Post.Title)

	edited, err := s.UpdateComment(ctx, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Comment)

	require.NoError(t, s.DeactivateComment(ctx, c.ID))
	found, err := s.FindComment(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	_, err = s.UpdateComment(ctx, 999, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
