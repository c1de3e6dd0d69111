package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. The string values are what gets
// persisted and embedded in token claims.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleGuest Role = "Guest"
	RoleUser  Role = "User"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuest, RoleUser:
		return true
	}
	return false
}

var ErrDuplicateEmail = errors.New("email already registered")
var ErrDuplicateUsername = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAlreadyActive = errors.New("account already active")
var ErrUnauthorized = errors.New("unauthorized")
var ErrInactiveAccount = errors.New("inactive account")
var ErrAccountNotFound = errors.New("account not found")

// Account models a registered identity and its auth state.
// PasswordHash is never serialized.
type Account struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"is_active"`
	Role         Role       `json:"role"`
	Avatar       *string    `json:"avatar,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
