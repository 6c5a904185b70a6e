package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/observability"
	"github.com/hongminglow/blog-be/internal/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() config.Config {
	return config.Config{
		Port:          "0",
		StorageDriver: config.DriverMemory,
		JWTSecret:     "test-secret",
		JWTIssuer:     "blog-backend",
		CORSOrigins:   []string{"*"},
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()
	logger := logging.Setup("blog-be", "test", "json", "error", io.Discard)
	return &client{t: t, handler: NewHandler(testConfig(), memory.NewStore(), logger, observability.NewMetrics())}
}

func (c *client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (c *client) register(email string) int64 {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/user/register", "", map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": email, "password": "Aa1!aaaa",
	})
	require.Equal(c.t, http.StatusCreated, status, env.Message)
	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &user))
	return user.ID
}

func (c *client) login(email, password string) (int, envelope, string) {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/auth", "", map[string]string{"email": email, "password": password})
	var data struct {
		Token string `json:"token"`
	}
	if status == http.StatusOK {
		require.NoError(c.t, json.Unmarshal(env.Data, &data))
	}
	return status, env, data.Token
}

func TestSingleSessionScenario(t *testing.T) {
	c := newClient(t)
	c.register("a@x.com")

	status, env, t1 := c.login("a@x.com", "Aa1!aaaa")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, t1)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = c.do(http.MethodGet, "/post", t1, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, t2 := c.login("a@x.com", "Aa1!aaaa")
	require.Equal(t, http.StatusOK, status)
	require.NotEqual(t, t1, t2)

	status, env = c.do(http.MethodGet, "/post", t1, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid session", env.Message)

	status, _ = c.do(http.MethodGet, "/post", t2, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginFailures(t *testing.T) {
	c := newClient(t)
	c.register("a@x.com")

	status, env, _ := c.login("unknown@x.com", "anything")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "email not found", env.Message)

	status, env, _ = c.login("a@x.com", "wrongpass")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "password incorrect", env.Message)

	status, _ = c.do(http.MethodPost, "/auth", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProtectedRoutes_TokenChecks(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/user", "/post", "/comment"} {
		status, env := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "token missing", env.Message)
	}

	status, env := c.do(http.MethodGet, "/post", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "token invalid", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	c := newClient(t)
	c.register("a@x.com")

	status, env := c.do(http.MethodPost, "/user/register", "", map[string]string{
		"firstName": "B", "lastName": "C", "email": "a@x.com", "password": "Aa1!aaaa",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User email have been already taken", env.Message)

	status, _ = c.do(http.MethodPost, "/user/register", "", map[string]string{
		"firstName": "B", "lastName": "C", "email": "b@x.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPostsAndComments(t *testing.T) {
	c := newClient(t)
	c.register("a@x.com")
	c.register("b@x.com")
	_, _, tokenA := c.login("a@x.com", "Aa1!aaaa")
	_, _, tokenB := c.login("b@x.com", "Aa1!aaaa")

	var postID int64
	for i := range 11 {
		status, env := c.do(http.MethodPost, "/post", tokenA, map[string]string{"title": "Title", "content": "Body"})
		require.Equal(t, http.StatusCreated, status)
		if i == 0 {
			var post struct {
				ID int64 `json:"id"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &post))
			postID = post.ID
		}
	}

	status, env := c.do(http.MethodGet, "/post?page=2", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		From, To, Total, TotalPages int
		Data                        []json.RawMessage
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 11, page.From)
	assert.Equal(t, 11, page.To)
	assert.Equal(t, 11, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 1)

	status, _ = c.do(http.MethodGet, "/post?page=abc", tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPatch, "/post", tokenB, map[string]any{"id": postID, "title": "mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = c.do(http.MethodPost, "/comment", tokenB, map[string]any{"comment": "nice", "postId": postID})
	require.Equal(t, http.StatusCreated, status)
	var comment struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))

	status, env = c.do(http.MethodGet, "/comment", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"post":{`)

	status, _ = c.do(http.MethodPatch, "/comment", tokenB, map[string]any{"commentId": comment.ID, "comment": "edited"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodDelete, "/post/"+strconv.FormatInt(postID, 10), tokenA, nil)
	assert.Equal(t, http.StatusOK, status)
	status, env = c.do(http.MethodDelete, "/post/"+strconv.FormatInt(postID, 10), tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "This post already been deleted", env.Message)

	status, env = c.do(http.MethodPost, "/comment", tokenB, map[string]any{"comment": "late", "postId": postID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Post doesn't exist so comment can't be posted", env.Message)
}

func TestDeleteUserEndsSession(t *testing.T) {
	c := newClient(t)
	id := c.register("a@x.com")
	other := c.register("b@x.com")
	_, _, token := c.login("a@x.com", "Aa1!aaaa")

	status, _ := c.do(http.MethodDelete, "/user/"+strconv.FormatInt(other, 10), token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do(http.MethodDelete, "/user/"+strconv.FormatInt(id, 10), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodGet, "/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env, _ := c.login("a@x.com", "Aa1!aaaa")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "email not found", env.Message)
}

func TestOperationalRoutes(t *testing.T) {
	c := newClient(t)

	status, env := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Message)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog_http_requests_total")

	status, env = c.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "route not found", env.Message)

	status, _ = c.do(http.MethodGet, "/auth", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestServer_StartShutdown(t *testing.T) {
	logger := logging.Setup("blog-be", "test", "json", "error", io.Discard)
	srv := New(testConfig(), memory.NewStore(), logger, observability.NewMetrics())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.True(t, errors.Is(<-errCh, http.ErrServerClosed))
}
