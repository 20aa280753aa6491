package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"site-task-manager/models"
)

// PostgresHistory stores history entries in the task_history table, with the
// task snapshots as jsonb.
type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (h *PostgresHistory) Append(ctx context.Context, entry models.HistoryEntry) error {
	var oldValue interface{}
	if entry.OldValue != nil {
		b, err := json.Marshal(entry.OldValue)
		if err != nil {
			return fmt.Errorf("encode old value: %w", err)
		}
		oldValue = string(b)
	}

	newValue, err := json.Marshal(entry.NewValue)
	if err != nil {
		return fmt.Errorf("encode new value: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO task_history (id, task_id, action, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6)`,
		entry.ID,
		entry.TaskID,
		entry.Action,
		oldValue,
		string(newValue),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history for task %s: %w", entry.TaskID, err)
	}
	return nil
}

func (h *PostgresHistory) List(ctx context.Context, taskID string) ([]models.HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, task_id, action, old_value, new_value, created_at
		FROM task_history
		WHERE task_id = $1
		ORDER BY created_at ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list history for task %s: %w", taskID, err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var (
			entry            models.HistoryEntry
			oldValue, newVal []byte
		)
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.Action, &oldValue, &newVal, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if len(oldValue) > 0 {
			entry.OldValue = &models.Task{}
			if err := json.Unmarshal(oldValue, entry.OldValue); err != nil {
				return nil, fmt.Errorf("decode old value: %w", err)
			}
		}
		entry.NewValue = &models.Task{}
		if err := json.Unmarshal(newVal, entry.NewValue); err != nil {
			return nil, fmt.Errorf("decode new value: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history for task %s: %w", taskID, err)
	}
	return entries, nil
}
