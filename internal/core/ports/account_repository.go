package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// AccountPatch carries a partial account update. Nil fields are left
// untouched; only non-nil fields are written.
type AccountPatch struct {
	FirstName    *string
	LastName     *string
	Username     *string
	Avatar       *string
	PasswordHash *string
	Role         *domain.Role
}

// Empty reports whether the patch would write nothing.
func (p AccountPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Username == nil &&
		p.Avatar == nil && p.PasswordHash == nil && p.Role == nil
}

// AccountRepository defines persistence operations for account records.
// Lookups return domain.ErrAccountNotFound when no row matches — never a
// zero-value account. All operations are atomic at the row level.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Insert persists a new account and returns the stored record with its
	// assigned id and timestamps.
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateFields(ctx context.Context, id int64, patch AccountPatch) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	// List returns a page of accounts ordered by id.
	List(ctx context.Context, offset, limit int) ([]*domain.Account, error)
}
