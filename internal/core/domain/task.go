package domain

import (
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("task not found")

// Task is owned by exactly one account. Every query against tasks must be
// scoped by OwnerID; a task that exists under a different owner is reported
// as absent, never as forbidden.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	StartTime   time.Time  `json:"start_time"`
	StopTime    *time.Time `json:"stop_time,omitempty"`
	OwnerID     int64      `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
