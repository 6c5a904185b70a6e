package models

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"authorId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostPatch struct {
	Title   *string
	Content *string
}

type Comment struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Post      *Post     `json:"post,omitempty"`
}
