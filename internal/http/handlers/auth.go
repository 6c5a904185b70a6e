package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/observability"
)

// Authenticator runs the login flow.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

// AuthHandler owns the login endpoint.
type AuthHandler struct {
	login   Authenticator
	metrics *observability.Metrics
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(login Authenticator, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{login: login, metrics: metrics}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/auth", h.handleLogin).Methods(http.MethodPost)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	session, err := h.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(apperror.KindOf(err).String())
		respond.FromError(w, r, err)
		return
	}
	h.metrics.ObserveLogin("success")
	respond.JSON(w, http.StatusOK, "login successful", dto.NewLoginResponse(session.User, session.Token))
}
