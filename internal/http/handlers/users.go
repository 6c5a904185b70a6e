package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/service"
)

// UserHandler serves registration and account management.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterPublic attaches routes reachable without a session.
func (h *UserHandler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/user/register", h.handleRegister).Methods(http.MethodPost)
}

// RegisterProtected attaches routes that require a session.
func (h *UserHandler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/user", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/user", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/user/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	created, err := h.users.Register(r.Context(), req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "User created successfully", created)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	users, err := h.users.List(r.Context(), page)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Users fetched successfully", users)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	updated, err := h.users.Update(r.Context(), caller, req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "User updated successfully", updated)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), caller, id); err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "The user have been deleted successfully", nil)
}
