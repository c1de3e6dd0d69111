package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

const taskColumns = `id, title, description, completed, start_time, stop_time, owner_id, created_at, updated_at`

// TaskRepository implements ports.TaskRepository on pgx. Every lookup and
// mutation carries an explicit conjunctive owner filter (id = $1 AND
// owner_id = $2) so an id belonging to another account behaves exactly like
// a missing row.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (title, description, completed, start_time, stop_time, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	created, err := scanTask(r.pool.QueryRow(ctx, query,
		task.Title, task.Description, task.Completed, task.StartTime, task.StopTime, task.OwnerID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND owner_id = $2`, taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE owner_id = $1 ORDER BY id OFFSET $2 LIMIT $3`, taskColumns)

	rows, err := r.pool.Query(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id, ownerID int64, patch ports.TaskPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{id, ownerID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $1 AND owner_id = $2`, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("delete tasks by owner: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed,
		&t.StartTime, &t.StopTime, &t.OwnerID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
