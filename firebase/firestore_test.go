package firebase

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-task-manager/models"
)

// Requires the Firestore emulator (FIRESTORE_EMULATOR_HOST).
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "site-task-manager-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestFirestoreHistory_AppendAndList(t *testing.T) {
	ctx := context.Background()
	h := NewFirestoreHistory(newEmulatorClient(t))

	taskID := uuid.NewString()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	before := models.Task{ID: taskID, Title: "Pay bill", Status: models.StatusPending, Category: models.CategoryFinance}
	after := before.Clone()
	after.Status = models.StatusCompleted

	require.NoError(t, h.Append(ctx, models.HistoryEntry{
		ID: uuid.NewString(), TaskID: taskID, Action: models.HistoryActionUpdated,
		OldValue: &before, NewValue: &after, CreatedAt: at.Add(time.Minute),
	}))
	require.NoError(t, h.Append(ctx, models.HistoryEntry{
		ID: uuid.NewString(), TaskID: taskID, Action: models.HistoryActionCreated,
		NewValue: &before, CreatedAt: at,
	}))

	entries, err := h.List(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.HistoryActionCreated, entries[0].Action)
	assert.Nil(t, entries[0].OldValue)
	assert.Equal(t, models.HistoryActionUpdated, entries[1].Action)
	require.NotNil(t, entries[1].OldValue)
	assert.Equal(t, models.StatusPending, entries[1].OldValue.Status)
	assert.Equal(t, models.StatusCompleted, entries[1].NewValue.Status)
	assert.Equal(t, models.CategoryFinance, entries[1].NewValue.Category)
}

func TestFirestoreHistory_ListUnknownTask(t *testing.T) {
	h := NewFirestoreHistory(newEmulatorClient(t))

	entries, err := h.List(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
