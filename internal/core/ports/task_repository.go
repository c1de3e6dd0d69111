package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// TaskPatch carries a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskRepository defines persistence operations for tasks. Every lookup and
// mutation takes the owner's account id and must apply it as a conjunctive
// filter (id AND owner_id) so a caller can never reach another account's
// task. A non-matching (id, ownerID) pair yields domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error)
	Update(ctx context.Context, id, ownerID int64, patch TaskPatch) error
	Delete(ctx context.Context, id, ownerID int64) error
	// DeleteByOwner removes every task owned by ownerID. Used when the
	// owning account is hard-deleted.
	DeleteByOwner(ctx context.Context, ownerID int64) error
}
