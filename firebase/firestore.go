package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator" // Para iterator.Done

	"site-task-manager/database"
	"site-task-manager/models"
)

const (
	tasksCollection   = "tasks"
	historyCollection = "history"
)

// FirestoreHistory keeps history entries in the subcollection
// tasks/{task_id}/history, one document per entry.
type FirestoreHistory struct {
	client *firestore.Client
}

var _ database.HistoryLog = (*FirestoreHistory)(nil)

func NewFirestoreHistory(client *firestore.Client) *FirestoreHistory {
	return &FirestoreHistory{client: client}
}

func (h *FirestoreHistory) collection(taskID string) *firestore.CollectionRef {
	return h.client.Collection(tasksCollection).Doc(taskID).Collection(historyCollection)
}

func (h *FirestoreHistory) Append(ctx context.Context, entry models.HistoryEntry) error {
	if _, err := h.collection(entry.TaskID).Doc(entry.ID).Set(ctx, entry); err != nil {
		return fmt.Errorf("erro ao gravar histórico da tarefa %s no Firestore: %w", entry.TaskID, err)
	}
	return nil
}

func (h *FirestoreHistory) List(ctx context.Context, taskID string) ([]models.HistoryEntry, error) {
	iter := h.collection(taskID).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	entries := []models.HistoryEntry{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao iterar histórico da tarefa %s: %w", taskID, err)
		}

		var entry models.HistoryEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("erro ao decodificar histórico %s: %w", doc.Ref.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
