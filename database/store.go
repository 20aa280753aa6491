package database

import (
	"context"
	"errors"

	"site-task-manager/models"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStore is implemented by the durable PostgreSQL store and by the
// in-memory fallback; callers do not need to know which one is active.
type TaskStore interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Create(ctx context.Context, in models.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, id string, in models.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]models.HistoryEntry, error)
}

// HistoryLog is an append-only audit trail of task mutations.
type HistoryLog interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context, taskID string) ([]models.HistoryEntry, error)
}

var (
	_ TaskStore  = (*PostgresStore)(nil)
	_ TaskStore  = (*MemoryStore)(nil)
	_ HistoryLog = (*PostgresHistory)(nil)
)
