package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// TaskService implements task CRUD scoped to the calling account. Ownership
// is enforced at the repository level with a conjunctive (id AND owner_id)
// filter; this layer only forwards the caller's id and normalizes input.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, input ports.CreateTaskInput) (*domain.Task, error) {
	start := input.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		StartTime:   start,
		StopTime:    input.StopTime,
		OwnerID:     ownerID,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Int64("task_id", created.ID).Int64("account_id", ownerID).Msg("task created")
	return created, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID, ownerID int64) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID int64, skip, limit int) ([]*domain.Task, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	tasks, err := s.repo.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, ownerID int64, input ports.UpdateTaskInput) (*domain.Task, error) {
	patch := ports.TaskPatch{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}
	if err := s.repo.Update(ctx, taskID, ownerID, patch); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, taskID, ownerID)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID int64) error {
	if err := s.repo.Delete(ctx, taskID, ownerID); err != nil {
		return err
	}
	s.logger.Info().Int64("task_id", taskID).Int64("account_id", ownerID).Msg("task deleted")
	return nil
}
