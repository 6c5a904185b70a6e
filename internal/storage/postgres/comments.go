package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, comment, post_id, author_id, is_active, created_at, updated_at`

// CreateComment inserts a new comment row. A missing post yields storage.ErrNotFound.
func (s *Store) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	const query = `
		INSERT INTO comments (comment, post_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns
	created, err := scanComment(s.pool.QueryRow(ctx, query, comment.Comment, comment.PostID, comment.AuthorID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Comment{}, storage.ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return created, nil
}

// FindComment fetches a comment by id regardless of its active flag.
func (s *Store) FindComment(ctx context.Context, id int64) (models.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	comment, err := scanComment(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Comment{}, lookupErr("find comment", err)
	}
	return comment, nil
}

// ListComments returns one page of the author's active comments joined with their posts.
func (s *Store) ListComments(ctx context.Context, authorID int64, page models.PageRequest) ([]models.Comment, int, error) {
	var total int
	const countQuery = `SELECT COUNT(*) FROM comments WHERE author_id = $1 AND is_active`
	if err := s.pool.QueryRow(ctx, countQuery, authorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	const query = `
		SELECT c.id, c.comment, c.post_id, c.author_id, c.is_active, c.created_at, c.updated_at,
		       p.id, p.title, p.content, p.author_id, p.is_active, p.created_at, p.updated_at
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.author_id = $1 AND c.is_active
		ORDER BY c.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, query, authorID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var p models.Post
		if err := rows.Scan(
			&c.ID, &c.Comment, &c.PostID, &c.AuthorID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
			&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		c.Post = &p
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, total, nil
}

// UpdateComment replaces the comment text.
func (s *Store) UpdateComment(ctx context.Context, id int64, text string) (models.Comment, error) {
	const query = `
		UPDATE comments SET comment = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns
	comment, err := scanComment(s.pool.QueryRow(ctx, query, id, text))
	if err != nil {
		return models.Comment{}, lookupErr("update comment", err)
	}
	return comment, nil
}

// DeactivateComment soft-deletes a comment.
func (s *Store) DeactivateComment(ctx context.Context, id int64) error {
	const query = `UPDATE comments SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.Comment, &c.PostID, &c.AuthorID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
