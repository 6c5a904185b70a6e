package dto

import (
	"strings"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/models"
)

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r CreatePostRequest) Validate() error {
	if r.Title == "" || strings.TrimSpace(r.Content) == "" {
		return apperror.BadRequest("title and content are required")
	}
	return nil
}

type UpdatePostRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r *UpdatePostRequest) Normalize() {
	trimPtr(r.Title)
}

func (r UpdatePostRequest) Validate() error {
	if r.ID < 1 {
		return apperror.BadRequest("id must be a positive number")
	}
	if emptyPtr(r.Title) || (r.Content != nil && strings.TrimSpace(*r.Content) == "") {
		return apperror.BadRequest("fields cannot be empty")
	}
	return nil
}

func (r UpdatePostRequest) Patch() models.PostPatch {
	return models.PostPatch{Title: r.Title, Content: r.Content}
}
