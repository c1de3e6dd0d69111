package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Avatar    *string
}

// UpdateAccountInput is a partial self-update. Nil fields are not applied.
type UpdateAccountInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Avatar    *string
	Password  *string
}

// AccountSnapshot is the account data embedded alongside an issued token
// pair. It mirrors what the tokens themselves assert at issue time.
type AccountSnapshot struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Avatar    *string `json:"avatar,omitempty"`
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	RefreshToken       string          `json:"refresh_token"`
	AccessToken        string          `json:"access_token"`
	TokenType          string          `json:"token_type"`
	TokenExpirySeconds int             `json:"token_expiry_seconds"`
	Data               AccountSnapshot `json:"data"`
}

// SessionService orchestrates the account/session lifecycle.
type SessionService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accountID int64) error
	UpdateSelf(ctx context.Context, accountID int64, input UpdateAccountInput) (*domain.Account, error)
	DeleteSelf(ctx context.Context, accountID int64) error
	ListAccounts(ctx context.Context, page, limit int) ([]*domain.Account, error)
}
