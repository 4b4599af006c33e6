package models

import (
	"time"
)

// Status is the coarse lifecycle state of a workflow.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Stage is the workflow's position in the upload → review pipeline.
type Stage string

const (
	StageUpload   Stage = "upload"
	StageExtract  Stage = "extract"
	StageDialogue Stage = "dialogue"
	StageReview   Stage = "review"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// ConversationTurn is one message of the completion dialogue.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	FieldID   string    `json:"field_id,omitempty"`
}

// Workflow is one run of filling a single document.
type Workflow struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"owner_id"`
	TemplateID   string             `json:"template_id"`
	Name         string             `json:"name"`
	Status       Status             `json:"status"`
	Stage        Stage              `json:"stage"`
	Filename     string             `json:"filename,omitempty"`
	OriginalText string             `json:"original_text,omitempty"`
	Fields       []Field            `json:"fields"`
	Conversation []ConversationTurn `json:"conversation"`
	// ActiveFieldID is the field currently awaiting an answer.
	ActiveFieldID string     `json:"active_field_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// FieldByID returns a pointer into Fields, or nil.
func (w *Workflow) FieldByID(id string) *Field {
	for i := range w.Fields {
		if w.Fields[i].ID == id {
			return &w.Fields[i]
		}
	}
	return nil
}

// NextEmptyField returns the first field in list order without a value.
func (w *Workflow) NextEmptyField() *Field {
	for i := range w.Fields {
		if !w.Fields[i].Filled() {
			return &w.Fields[i]
		}
	}
	return nil
}

// MissingFields counts fields without a value.
func (w *Workflow) MissingFields() int {
	n := 0
	for _, f := range w.Fields {
		if !f.Filled() {
			n++
		}
	}
	return n
}

// IsComplete reports whether the workflow reached its terminal state.
func (w *Workflow) IsComplete() bool {
	return w.Status == StatusCompleted && w.Stage == StageReview
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := *w
	out.Fields = append([]Field(nil), w.Fields...)
	out.Conversation = append([]ConversationTurn(nil), w.Conversation...)
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}
