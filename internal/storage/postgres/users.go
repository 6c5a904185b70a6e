package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, first_name, last_name, email, password_hash, is_active, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.FirstName, user.LastName, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.User{}, lookupErr("find user", err)
	}
	return user, nil
}

// FindActiveByEmail fetches an active user by email address.
func (s *Store) FindActiveByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	user, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return models.User{}, lookupErr("find user by email", err)
	}
	return user, nil
}

// EmailTaken reports whether a user other than exceptID owns email.
func (s *Store) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var taken bool
	if err := s.pool.QueryRow(ctx, query, email, exceptID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// ListUsers returns one page of active users matching the search term.
func (s *Store) ListUsers(ctx context.Context, page models.PageRequest) ([]models.User, int, error) {
	const filter = `FROM users
		WHERE is_active AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)`
	pattern := likePattern(page.Search)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) `+filter, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` `+filter+` ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// UpdateUser applies the non-nil fields of patch.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	const query = `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, id, patch.FirstName, patch.LastName, patch.Email))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, lookupErr("update user", err)
	}
	return user, nil
}

// DeactivateUser soft-deletes the user and drops its session token.
func (s *Store) DeactivateUser(ctx context.Context, id int64) error {
	const query = `UPDATE users SET is_active = FALSE, token = NULL, updated_at = NOW() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetToken stores token as the user's only valid session token.
func (s *Store) SetToken(ctx context.Context, id int64, token string) error {
	const query = `UPDATE users SET token = $2, updated_at = NOW() WHERE id = $1 AND is_active`
	tag, err := s.pool.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindBySession fetches the active user whose stored token equals token.
func (s *Store) FindBySession(ctx context.Context, id int64, token string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND token = $2 AND is_active`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id, token))
	if err != nil {
		return models.User{}, lookupErr("find session", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}
