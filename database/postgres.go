package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"site-task-manager/classifier"
	"site-task-manager/models"
	"site-task-manager/utilities"
)

const taskColumns = `id, title, description, assigned_to, due_date, status, category, priority,
	extracted_entities, suggested_actions, created_at, updated_at`

// PostgresStore is the durable TaskStore. Every create and update is followed
// by an entry in the configured HistoryLog.
type PostgresStore struct {
	db      *sql.DB
	history HistoryLog
	now     func() time.Time
}

func NewPostgresStore(db *sql.DB, history HistoryLog) *PostgresStore {
	return &PostgresStore{db: db, history: history, now: now}
}

// now truncates to the precision of TIMESTAMPTZ so returned tasks match what
// a later read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStore) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var conditions []string
	params := []interface{}{}
	paramCount := 1

	// Adicionar filtros
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramCount))
		params = append(params, filter.Status)
		paramCount++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", paramCount))
		params = append(params, filter.Category)
		paramCount++
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", paramCount))
		params = append(params, filter.Priority)
		paramCount++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	utilities.LogDebug("Buscando tarefas com filtros - status: %q, categoria: %q, prioridade: %q",
		filter.Status, filter.Category, filter.Priority)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStore) Create(ctx context.Context, in models.CreateTaskInput) (*models.Task, error) {
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

	entities, err := json.Marshal(task.ExtractedEntities)
	if err != nil {
		return nil, fmt.Errorf("encode extracted entities: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12)`,
		task.ID,
		task.Title,
		task.Description,
		task.AssignedTo,
		task.DueDate,
		task.Status,
		string(task.Category),
		string(task.Priority),
		string(entities),
		pq.Array(task.SuggestedActions),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	snapshot := task.Clone()
	s.appendHistory(ctx, models.HistoryEntry{
		TaskID:   task.ID,
		Action:   models.HistoryActionCreated,
		NewValue: &snapshot,
	})

	return &task, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

// Update merges the given fields. Category and priority only change when the
// caller sets them explicitly; edited text is never reclassified.
func (s *PostgresStore) Update(ctx context.Context, id string, in models.UpdateTaskInput) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1 FOR UPDATE", id)
	current, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", id, err)
	}

	old := current.Clone()
	in.Apply(current)
	current.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, assigned_to = $3, due_date = $4,
		    status = $5, category = $6, priority = $7, updated_at = $8
		WHERE id = $9`,
		current.Title,
		current.Description,
		current.AssignedTo,
		current.DueDate,
		current.Status,
		string(current.Category),
		string(current.Priority),
		current.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update %s: %w", id, err)
	}

	snapshot := current.Clone()
	s.appendHistory(ctx, models.HistoryEntry{
		TaskID:   id,
		Action:   models.HistoryActionUpdated,
		OldValue: &old,
		NewValue: &snapshot,
	})

	return current, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, id string) ([]models.HistoryEntry, error) {
	if s.history == nil {
		return []models.HistoryEntry{}, nil
	}
	return s.history.List(ctx, id)
}

// appendHistory never fails the mutation that triggered it; the task row is
// already committed at this point.
func (s *PostgresStore) appendHistory(ctx context.Context, entry models.HistoryEntry) {
	if s.history == nil {
		return
	}
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.now()

	if err := s.history.Append(ctx, entry); err != nil {
		utilities.LogError(err, fmt.Sprintf("Falha ao registrar histórico (%s) da tarefa %s", entry.Action, entry.TaskID))
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task                             models.Task
		description, assignedTo, dueDate sql.NullString
		category, priority               string
		entities                         []byte
		actions                          []string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&assignedTo,
		&dueDate,
		&task.Status,
		&category,
		&priority,
		&entities,
		pq.Array(&actions),
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = nullableString(description)
	task.AssignedTo = nullableString(assignedTo)
	task.DueDate = nullableString(dueDate)
	task.Category = models.Category(category)
	task.Priority = models.Priority(priority)

	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &task.ExtractedEntities); err != nil {
			return nil, fmt.Errorf("decode extracted entities: %w", err)
		}
	}
	if task.ExtractedEntities.Dates == nil {
		task.ExtractedEntities.Dates = []string{}
	}
	if task.ExtractedEntities.Locations == nil {
		task.ExtractedEntities.Locations = []string{}
	}
	if actions == nil {
		actions = []string{}
	}
	task.SuggestedActions = actions

	return &task, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
