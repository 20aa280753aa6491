package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"site-task-manager/classifier"
	"site-task-manager/models"
)

// MemoryStore is the TaskStore used when no database is configured. It starts
// empty and lives as long as the process. History is not recorded.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*memoryRecord
	seq   uint64
	now   func() time.Time
}

type memoryRecord struct {
	task models.Task
	seq  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*memoryRecord),
		now:   now,
	}
}

func (s *MemoryStore) List(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	records := make([]*memoryRecord, 0, len(s.tasks))
	for _, r := range s.tasks {
		if filter.Matches(r.task) {
			records = append(records, r)
		}
	}

	// created_at desc; insertion order breaks ties
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]models.Task, len(records))
	for i, r := range records {
		tasks[i] = r.task.Clone()
	}
	s.mu.RUnlock()

	return tasks, nil
}

func (s *MemoryStore) Create(_ context.Context, in models.CreateTaskInput) (*models.Task, error) {
	ts := s.now()
	task := models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		Status:      models.StatusPending,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	task.ApplyClassification(classifier.Classify(in.Title, in.Description))
	task = task.Clone()

	s.mu.Lock()
	s.seq++
	s.tasks[task.ID] = &memoryRecord{task: task, seq: s.seq}
	s.mu.Unlock()

	out := task.Clone()
	return &out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	out := r.task.Clone()
	return &out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, in models.UpdateTaskInput) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	in.Apply(&r.task)
	r.task.UpdatedAt = s.now()

	out := r.task.Clone()
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) History(_ context.Context, _ string) ([]models.HistoryEntry, error) {
	return []models.HistoryEntry{}, nil
}
