package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task for the caller.
type CreateTaskInput struct {
	Title       string
	Description string
	StartTime   time.Time
	StopTime    *time.Time
}

// UpdateTaskInput is a partial task update. Nil fields are not applied.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService defines use-case operations for tasks. Every operation is
// scoped to the calling account's id.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, taskID, ownerID int64) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID int64, skip, limit int) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, taskID, ownerID int64, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID int64) error
}
