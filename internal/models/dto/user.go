package dto

import (
	"net/mail"
	"strings"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/models"
)

const passwordSpecials = "!@#$%^&*"

var ErrWeakPassword = apperror.BadRequest("Password must contain at least 1 lowercase alphabetical character, " +
	"1 uppercase alphabetical character, 1 numeric character, one special character and must be eight characters or longer.")

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
}

func (r RegisterRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Password == "" {
		return apperror.BadRequest("firstName, lastName, email and password are required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (r *UpdateUserRequest) Normalize() {
	trimPtr(r.FirstName)
	trimPtr(r.LastName)
	if r.Email != nil {
		*r.Email = normalizeEmail(*r.Email)
	}
}

func (r UpdateUserRequest) Validate() error {
	if r.ID < 1 {
		return apperror.BadRequest("id must be a positive number")
	}
	if emptyPtr(r.FirstName) || emptyPtr(r.LastName) || emptyPtr(r.Email) {
		return apperror.BadRequest("fields cannot be empty")
	}
	if r.Email != nil {
		return validateEmail(*r.Email)
	}
	return nil
}

func (r UpdateUserRequest) Patch() models.UserPatch {
	return models.UserPatch{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email}
}

// ValidatePassword requires eight or more characters with a lowercase letter,
// an uppercase letter, a digit and one of !@#$%^&*.
func ValidatePassword(password string) error {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if len(password) < 8 || !lower || !upper || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.BadRequest("email must be an email")
	}
	return nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func emptyPtr(s *string) bool {
	return s != nil && *s == ""
}
