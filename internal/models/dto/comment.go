package dto

import (
	"strings"

	"github.com/hongminglow/blog-be/internal/apperror"
)

type CreateCommentRequest struct {
	Comment string `json:"comment"`
	PostID  int64  `json:"postId"`
}

func (r CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Comment) == "" {
		return apperror.BadRequest("comment is required")
	}
	if r.PostID < 1 {
		return apperror.BadRequest("postId must be a positive number")
	}
	return nil
}

type UpdateCommentRequest struct {
	CommentID int64  `json:"commentId"`
	Comment   string `json:"comment"`
}

func (r UpdateCommentRequest) Validate() error {
	if r.CommentID < 1 {
		return apperror.BadRequest("commentId must be a positive number")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return apperror.BadRequest("comment is required")
	}
	return nil
}
