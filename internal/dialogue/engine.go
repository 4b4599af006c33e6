// Package dialogue walks a user through a workflow's fields one at a time,
// validating each answer before moving on.
package dialogue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lexflow/backend/pkg/models"
)

var (
	// ErrNoFields is returned when a dialogue is started on a workflow with
	// no extracted fields.
	ErrNoFields = errors.New("dialogue: workflow has no fields")
	// ErrNoActiveField reports an answer submitted while no field is awaiting
	// one. It is benign: nothing is mutated.
	ErrNoActiveField = errors.New("dialogue: no active field")
	// ErrUnknownField marks a cursor pointing at a field that does not exist.
	ErrUnknownField = errors.New("dialogue: active field not in field list")
)

// Outcome is what happened to a submitted answer.
type Outcome string

const (
	OutcomeIdle      Outcome = "idle"
	OutcomeRejected  Outcome = "rejected"
	OutcomeAccepted  Outcome = "accepted"
	OutcomeCompleted Outcome = "completed"
)

// Result reports the effect of one SubmitAnswer call.
type Result struct {
	Outcome Outcome
	// Field is the field the answer was checked against.
	Field *models.Field
	// Next is the field now being asked for, if any.
	Next *models.Field
	// Err is ErrNoActiveField or a *ValidationError for non-advancing outcomes.
	Err error
}

// Engine drives the dialogue of one workflow. It holds no state besides the
// workflow it wraps, so independent workflows never interfere.
type Engine struct {
	wf  *models.Workflow
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to timestamp turns.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New wraps wf. The engine mutates wf in place.
func New(wf *models.Workflow, opts ...Option) *Engine {
	e := &Engine{wf: wf, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workflow returns the wrapped workflow.
func (e *Engine) Workflow() *models.Workflow {
	return e.wf
}

// ActiveField returns the field awaiting an answer, or nil.
func (e *Engine) ActiveField() *models.Field {
	if e.wf.ActiveFieldID == "" {
		return nil
	}
	return e.wf.FieldByID(e.wf.ActiveFieldID)
}

// Start moves the workflow into the dialogue stage and asks for the first
// field without a value. Fields that already hold a value are skipped.
func (e *Engine) Start() error {
	if len(e.wf.Fields) == 0 {
		return ErrNoFields
	}
	if e.wf.IsComplete() {
		return nil
	}
	if active := e.ActiveField(); active != nil && !active.Filled() {
		return nil
	}

	e.wf.Stage = models.StageDialogue
	e.wf.Status = models.StatusInProgress
	if next := e.wf.NextEmptyField(); next != nil {
		e.AskForField(next)
		return nil
	}
	e.complete()
	return nil
}

// AskForField presents field to the user and makes it the active field.
func (e *Engine) AskForField(field *models.Field) {
	e.wf.ActiveFieldID = field.ID
	e.appendTurn(models.ConversationTurn{
		Role:    models.RoleAssistant,
		Text:    promptText(field),
		FieldID: field.ID,
	})
}

// SubmitAnswer records raw as the answer to the active field. Invalid answers
// leave the active field in place so the user can retry.
func (e *Engine) SubmitAnswer(raw string) (Result, error) {
	if e.wf.ActiveFieldID == "" {
		return Result{Outcome: OutcomeIdle, Err: ErrNoActiveField}, nil
	}
	field := e.ActiveField()
	if field == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownField, e.wf.ActiveFieldID)
	}

	input := strings.TrimSpace(raw)
	e.appendTurn(models.ConversationTurn{Role: models.RoleUser, Text: input})

	if err := Validate(field.Type, input); err != nil {
		verr := &ValidationError{FieldID: field.ID, Label: field.Label, Reason: err}
		e.appendTurn(models.ConversationTurn{
			Role: models.RoleAssistant,
			Text: rejectionText(field, err),
		})
		return Result{Outcome: OutcomeRejected, Field: field, Err: verr}, nil
	}

	field.Value = input
	e.wf.ActiveFieldID = ""
	e.appendTurn(models.ConversationTurn{
		Role: models.RoleAssistant,
		Text: confirmationText(field),
	})

	if next := e.wf.NextEmptyField(); next != nil {
		e.AskForField(next)
		return Result{Outcome: OutcomeAccepted, Field: field, Next: next}, nil
	}
	e.complete()
	return Result{Outcome: OutcomeCompleted, Field: field}, nil
}

// Restart clears every collected value and the conversation.
func (e *Engine) Restart() {
	for i := range e.wf.Fields {
		e.wf.Fields[i].Value = ""
	}
	e.wf.Conversation = nil
	e.wf.ActiveFieldID = ""
	e.wf.Status = models.StatusInProgress
	e.wf.Stage = models.StageExtract
	e.wf.CompletedAt = nil
}

func (e *Engine) complete() {
	// Guard the terminal state: review is only reachable with every value set.
	if e.wf.MissingFields() > 0 {
		return
	}
	now := e.now()
	e.appendTurn(models.ConversationTurn{Role: models.RoleAssistant, Text: completionText})
	e.wf.ActiveFieldID = ""
	e.wf.Stage = models.StageReview
	e.wf.Status = models.StatusCompleted
	e.wf.CompletedAt = &now
}

func (e *Engine) appendTurn(turn models.ConversationTurn) {
	turn.Timestamp = e.now()
	e.wf.Conversation = append(e.wf.Conversation, turn)
	e.wf.UpdatedAt = turn.Timestamp
}
