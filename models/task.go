package models

import (
	"encoding/json"
	"time"
)

type Category string

const (
	CategorySafety     Category = "safety"
	CategoryScheduling Category = "scheduling"
	CategoryFinance    Category = "finance"
	CategoryTechnical  Category = "technical"
	CategoryGeneral    Category = "general"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ExtractedEntities holds the raw substrings pulled out of a task's text.
// Locations is reserved and always empty.
type ExtractedEntities struct {
	Dates     []string `json:"dates" firestore:"dates"`
	Locations []string `json:"locations" firestore:"locations"`
}

// Classification is the annotation attached to a task when it is created.
type Classification struct {
	Category          Category          `json:"category" firestore:"category"`
	Priority          Priority          `json:"priority" firestore:"priority"`
	ExtractedEntities ExtractedEntities `json:"extracted_entities" firestore:"extracted_entities"`
	SuggestedActions  []string          `json:"suggested_actions" firestore:"suggested_actions"`
}

// Task é o registro central de uma tarefa da obra.
type Task struct {
	ID          string  `json:"id" firestore:"id"`
	Title       string  `json:"title" firestore:"title"`
	Description *string `json:"description" firestore:"description"`
	AssignedTo  *string `json:"assigned_to" firestore:"assigned_to"`
	DueDate     *string `json:"due_date" firestore:"due_date"`
	Status      string  `json:"status" firestore:"status"`

	Category          Category          `json:"category" firestore:"category"`
	Priority          Priority          `json:"priority" firestore:"priority"`
	ExtractedEntities ExtractedEntities `json:"extracted_entities" firestore:"extracted_entities"`
	SuggestedActions  []string          `json:"suggested_actions" firestore:"suggested_actions"`

	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`
}

// Clone returns a deep copy, so snapshots kept in history never alias live state.
func (t Task) Clone() Task {
	c := t
	c.Description = cloneString(t.Description)
	c.AssignedTo = cloneString(t.AssignedTo)
	c.DueDate = cloneString(t.DueDate)
	c.ExtractedEntities = ExtractedEntities{
		Dates:     append([]string{}, t.ExtractedEntities.Dates...),
		Locations: append([]string{}, t.ExtractedEntities.Locations...),
	}
	c.SuggestedActions = append([]string{}, t.SuggestedActions...)
	return c
}

// ApplyClassification copies the classifier output onto the task.
func (t *Task) ApplyClassification(c Classification) {
	t.Category = c.Category
	t.Priority = c.Priority
	t.ExtractedEntities = c.ExtractedEntities
	t.SuggestedActions = c.SuggestedActions
}

// Para escrita: campos gerados pelo servidor ficam de fora.
type CreateTaskInput struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

// UpdateTaskInput usa ponteiros para indicar quais campos atualizar.
type UpdateTaskInput struct {
	Title       *string        `json:"title" validate:"omitempty,min=1"`
	Description OptionalString `json:"description"`
	AssignedTo  OptionalString `json:"assigned_to"`
	DueDate     OptionalString `json:"due_date"`
	Status      *string        `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Category    *Category      `json:"category" validate:"omitempty,oneof=safety scheduling finance technical general"`
	Priority    *Priority      `json:"priority" validate:"omitempty,oneof=high medium low"`
}

// Apply merges the fields present in the request into t; an explicit null
// clears an optional text field. Classification is never recomputed here.
func (in UpdateTaskInput) Apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description.Set {
		t.Description = cloneString(in.Description.Value)
	}
	if in.AssignedTo.Set {
		t.AssignedTo = cloneString(in.AssignedTo.Value)
	}
	if in.DueDate.Set {
		t.DueDate = cloneString(in.DueDate.Value)
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
}

// OptionalString distingue um campo ausente de um null explícito num PATCH:
// Set is false when the key is absent, and Value is nil for null.
type OptionalString struct {
	Set   bool
	Value *string
}

// SetString returns a present, non-null value.
func SetString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null returns a present null, which clears the field.
func Null() OptionalString {
	return OptionalString{Set: true}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// TaskFilter mirrors the list query parameters; empty fields do not filter.
type TaskFilter struct {
	Status   string
	Category string
	Priority string
}

// Matches reports whether t passes every set filter.
func (f TaskFilter) Matches(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && string(t.Category) != f.Category {
		return false
	}
	if f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ClassifyInput é o corpo de uma pré-visualização de classificação.
type ClassifyInput struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}
