package models

import "time"

// User captures application-facing fields for an authenticated identity.
// The current session token is stored alongside the row but never loaded
// into this struct.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch lists the fields a user update may change. Nil fields are left as-is.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}
