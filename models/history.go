package models

import "time"

const (
	HistoryActionCreated = "created"
	HistoryActionUpdated = "updated"
)

// HistoryEntry registra o estado de uma tarefa antes e depois de uma mutação.
// TaskID is a weak reference: entries outlive the task they describe.
type HistoryEntry struct {
	ID        string    `json:"id" firestore:"id"`
	TaskID    string    `json:"task_id" firestore:"task_id"`
	Action    string    `json:"action" firestore:"action"`
	OldValue  *Task     `json:"old_value,omitempty" firestore:"old_value,omitempty"`
	NewValue  *Task     `json:"new_value" firestore:"new_value"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}
