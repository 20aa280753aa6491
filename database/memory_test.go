package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-task-manager/models"
)

func strPtr(s string) *string { return &s }

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryStore_CreateClassifies(t *testing.T) {
	s := NewMemoryStore()

	task, err := s.Create(context.Background(), models.CreateTaskInput{
		Title:       "Fix gas leak in the basement ASAP",
		Description: strPtr("Smell is very strong, need inspection."),
		AssignedTo:  strPtr("crew-7"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.CategorySafety, task.Category)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, []string{"Conduct inspection", "File incident report", "Stop work"}, task.SuggestedActions)
	assert.Equal(t, "crew-7", *task.AssignedTo)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	got, err := s.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestMemoryStore_ListOrderAndFilters(t *testing.T) {
	s := NewMemoryStore()
	s.now = fixedClock()
	ctx := context.Background()

	first, err := s.Create(ctx, models.CreateTaskInput{Title: "Pay the invoice today"})
	require.NoError(t, err)
	second, err := s.Create(ctx, models.CreateTaskInput{Title: "Schedule a call for tomorrow"})
	require.NoError(t, err)
	third, err := s.Create(ctx, models.CreateTaskInput{Title: "Repair the pump soon"})
	require.NoError(t, err)

	all, err := s.List(ctx, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	finance, err := s.List(ctx, models.TaskFilter{Category: "finance"})
	require.NoError(t, err)
	require.Len(t, finance, 1)
	assert.Equal(t, first.ID, finance[0].ID)

	medium, err := s.List(ctx, models.TaskFilter{Priority: "medium", Status: "pending"})
	require.NoError(t, err)
	require.Len(t, medium, 1)
	assert.Equal(t, third.ID, medium[0].ID)

	none, err := s.List(ctx, models.TaskFilter{Status: "completed"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore_ListTiesKeepNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return ts }
	ctx := context.Background()

	a, _ := s.Create(ctx, models.CreateTaskInput{Title: "a"})
	b, _ := s.Create(ctx, models.CreateTaskInput{Title: "b"})

	all, err := s.List(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, []string{all[0].ID, all[1].ID})
}

func TestMemoryStore_UpdateDoesNotReclassify(t *testing.T) {
	s := NewMemoryStore()
	s.now = fixedClock()
	ctx := context.Background()

	task, err := s.Create(ctx, models.CreateTaskInput{Title: "Pay the invoice today"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, task.ID, models.UpdateTaskInput{
		Title:  strPtr("Gas leak near the crane"),
		Status: strPtr(models.StatusInProgress),
	})
	require.NoError(t, err)

	assert.Equal(t, "Gas leak near the crane", updated.Title)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, models.CategoryFinance, updated.Category)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestMemoryStore_UpdateExplicitOverrides(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.Create(ctx, models.CreateTaskInput{Title: "Order gloves"})
	require.NoError(t, err)
	require.Equal(t, models.CategoryGeneral, task.Category)

	safety := models.CategorySafety
	high := models.PriorityHigh
	updated, err := s.Update(ctx, task.ID, models.UpdateTaskInput{Category: &safety, Priority: &high})
	require.NoError(t, err)

	assert.Equal(t, models.CategorySafety, updated.Category)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	// suggestions stay as assigned at creation
	assert.Equal(t, []string{}, updated.SuggestedActions)
}

func TestMemoryStore_ReturnedTasksAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.Create(ctx, models.CreateTaskInput{Title: "Helmet check", Description: strPtr("all crews")})
	require.NoError(t, err)

	*task.Description = "changed"
	task.SuggestedActions[0] = "changed"

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "all crews", *got.Description)
	assert.Equal(t, "Conduct inspection", got.SuggestedActions[0])
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.Update(ctx, "missing", models.UpdateTaskInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrTaskNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.Create(ctx, models.CreateTaskInput{Title: "Remove debris"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, task.ID))

	_, err = s.Get(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete(ctx, task.ID), ErrTaskNotFound)
}

func TestMemoryStore_HistoryIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.Create(ctx, models.CreateTaskInput{Title: "Install lights"})
	require.NoError(t, err)

	entries, err := s.History(ctx, task.ID)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.CreateTaskInput{Title: "Inspect scaffolding"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.List(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
