package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/service"
)

// CommentHandler serves the caller's comments. Every route needs a session.
type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Register(r *mux.Router) {
	r.HandleFunc("/comment", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/comment", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/comment", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/comment/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *CommentHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	var req dto.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), caller, req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Comment have been created successfully", comment)
}

func (h *CommentHandler) handleList(w http.ResponseWriter, r *http.Request) {
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
	comments, err := h.comments.List(r.Context(), caller, page)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Comments fetched successfully", comments)
}

func (h *CommentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	var req dto.UpdateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.FromError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		respond.FromError(w, r, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), caller, req)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Comment updated successfully", comment)
}

func (h *CommentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.comments.Delete(r.Context(), caller, id); err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Comment deleted successfully", nil)
}
