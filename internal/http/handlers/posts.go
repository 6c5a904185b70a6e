package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/service"
)

// PostHandler serves the caller's posts. Every route needs a session.
type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Register(r *mux.Router) {
	r.HandleFunc("/post", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/post", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/post", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/post/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	var req dto.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), caller, req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Post created successfully", post)
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	page, err := pageRequest(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	posts, err := h.posts.List(r.Context(), caller, page)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Posts fetched successfully", posts)
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	var req dto.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), caller, req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Post updated successfully", post)
}

func (h *PostHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.posts.Delete(r.Context(), caller, id); err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "The post have been deleted successfully", nil)
}
