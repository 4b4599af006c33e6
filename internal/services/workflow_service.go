package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexflow/backend/internal/dialogue"
	"lexflow/backend/internal/extraction"
	"lexflow/backend/internal/logging"
	"lexflow/backend/internal/render"
	"lexflow/backend/internal/repository"
	"lexflow/backend/pkg/models"
)

var (
	// ErrNotFound is returned for missing workflows and for workflows owned
	// by someone else.
	ErrNotFound = repository.ErrNotFound
	// ErrUnknownTemplate is returned when creating a workflow from a template
	// id that is not in the catalog.
	ErrUnknownTemplate = errors.New("unknown workflow template")
	// ErrNoDocument is returned when the dialogue is started before a
	// document was uploaded.
	ErrNoDocument = errors.New("no document uploaded")
	// ErrNotReady is returned when the final document is requested before
	// every field has a value.
	ErrNotReady = errors.New("document is not complete")
)

// AnswerResult reports one submitted answer. Field and Next are copies.
type AnswerResult struct {
	Outcome  dialogue.Outcome `json:"outcome"`
	Field    *models.Field    `json:"field,omitempty"`
	Next     *models.Field    `json:"next,omitempty"`
	Problem  error            `json:"-"`
	Workflow *models.Workflow `json:"workflow"`
}

// Document is a rendered workflow ready for download.
type Document struct {
	Text      string            `json:"text"`
	Filename  string            `json:"filename"`
	Conflicts []render.Conflict `json:"conflicts,omitempty"`
}

type session struct {
	mu sync.Mutex
	id string
	wf *models.Workflow
	// dirty is set while the session holds answers the store has not seen.
	dirty bool
	// released sessions are out of the map; holders must look up again.
	released bool
}

// WorkflowService runs workflows from upload to review. Each workflow is
// worked on in an in-memory session guarded by its own mutex, so concurrent
// requests against different workflows never block each other. Sessions are
// written through to the store on upload, restart and completion, and are
// only kept in memory while they hold answers the store has not seen.
type WorkflowService struct {
	store     repository.WorkflowStore
	extractor *extraction.Extractor
	logger    *logging.Logger
	metrics   *Metrics
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a WorkflowService.
type Option func(*WorkflowService)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *WorkflowService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics attaches OpenTelemetry counters.
func WithMetrics(m *Metrics) Option {
	return func(s *WorkflowService) {
		s.metrics = m
	}
}

// NewWorkflowService creates a new WorkflowService. A nil extractor uses the
// keyword classifier and a nil logger discards output.
func NewWorkflowService(store repository.WorkflowStore, extractor *extraction.Extractor, logger *logging.Logger, opts ...Option) *WorkflowService {
	if extractor == nil {
		extractor = extraction.NewExtractor(nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &WorkflowService{
		store:     store,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Templates returns the workflow template catalog.
func (s *WorkflowService) Templates() []models.Template {
	return append([]models.Template(nil), models.Templates...)
}

// CreateWorkflow starts a new workflow for ownerID from a catalog template.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, ownerID, templateID string) (*models.Workflow, error) {
	tmpl, ok := models.TemplateByID(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}

	now := s.now().UTC()
	wf := &models.Workflow{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		TemplateID:   tmpl.ID,
		Name:         tmpl.Name,
		Status:       models.StatusInProgress,
		Stage:        models.StageUpload,
		Fields:       []models.Field{},
		Conversation: []models.ConversationTurn{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.logger.Info("workflow created", "workflow_id", wf.ID, "template_id", tmpl.ID, "owner_id", ownerID)
	return wf.Clone(), nil
}

// GetWorkflow returns the current state of a workflow owned by ownerID.
func (s *WorkflowService) GetWorkflow(ctx context.Context, ownerID, id string) (*models.Workflow, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)
	return sess.wf.Clone(), nil
}

// ListWorkflows returns ownerID's workflows, newest first. Workflows with a
// live session are reported in their in-memory state.
func (s *WorkflowService) ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error) {
	stored, err := s.store.ListWorkflows(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	s.mu.Lock()
	live := make(map[string]*session, len(s.sessions))
	for id, sess := range s.sessions {
		live[id] = sess
	}
	s.mu.Unlock()

	for i, wf := range stored {
		sess, ok := live[wf.ID]
		if !ok {
			continue
		}
		sess.mu.Lock()
		if sess.wf != nil {
			stored[i] = sess.wf.Clone()
		}
		sess.mu.Unlock()
	}
	return stored, nil
}

// UploadDocument extracts the fields of text into the workflow and records
// the analysis as the first turn of a fresh conversation. On any failure,
// including cancellation, the workflow is left as it was.
func (s *WorkflowService) UploadDocument(ctx context.Context, ownerID, id, filename, text string) (*models.Workflow, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	res, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.logger.Warn("extraction failed", "workflow_id", id, "error", err)
		return nil, fmt.Errorf("failed to extract fields: %w", err)
	}

	now := s.now().UTC()
	draft := sess.wf.Clone()
	draft.Filename = filename
	draft.OriginalText = text
	draft.Fields = res.Fields
	draft.Status = models.StatusInProgress
	draft.Stage = models.StageExtract
	draft.ActiveFieldID = ""
	draft.CompletedAt = nil
	draft.Conversation = []models.ConversationTurn{{
		Role:      models.RoleAssistant,
		Text:      analysisText(res.Analysis),
		Timestamp: now,
	}}
	draft.UpdatedAt = now

	if err := s.commit(ctx, sess, draft, true); err != nil {
		return nil, err
	}
	s.metrics.recordExtracted(ctx, res.Analysis.DocumentType, len(res.Fields))
	s.logger.Info("document uploaded",
		"workflow_id", id,
		"filename", filename,
		"fields", len(res.Fields),
		"document_type", res.Analysis.DocumentType,
	)
	return draft.Clone(), nil
}

// StartDialogue asks for the first field without a value.
func (s *WorkflowService) StartDialogue(ctx context.Context, ownerID, id string) (*models.Workflow, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	if sess.wf.Stage == models.StageUpload {
		return nil, ErrNoDocument
	}

	draft := sess.wf.Clone()
	wasComplete := draft.IsComplete()
	if err := s.engine(draft).Start(); err != nil {
		return nil, err
	}

	completed := !wasComplete && draft.IsComplete()
	if err := s.commit(ctx, sess, draft, completed); err != nil {
		return nil, err
	}
	if completed {
		s.metrics.recordCompleted(ctx, draft.TemplateID)
	}
	return draft.Clone(), nil
}

// SubmitAnswer answers the active field. Validation failures are reported
// in AnswerResult.Problem, not as an error.
func (s *WorkflowService) SubmitAnswer(ctx context.Context, ownerID, id, answer string) (*AnswerResult, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	draft := sess.wf.Clone()
	res, err := s.engine(draft).SubmitAnswer(answer)
	if err != nil {
		s.logger.Error("dialogue state is inconsistent", "workflow_id", id, "error", err)
		return nil, err
	}

	completed := res.Outcome == dialogue.OutcomeCompleted
	if res.Outcome != dialogue.OutcomeIdle {
		if err := s.commit(ctx, sess, draft, completed); err != nil {
			return nil, err
		}
	}

	switch res.Outcome {
	case dialogue.OutcomeRejected:
		s.metrics.recordRejected(ctx, string(res.Field.Type))
		s.logger.Debug("answer rejected", "workflow_id", id, "field_id", res.Field.ID, "error", res.Err)
	case dialogue.OutcomeCompleted:
		s.metrics.recordCompleted(ctx, draft.TemplateID)
		s.logger.Info("workflow completed", "workflow_id", id, "fields", len(draft.Fields))
	}

	return &AnswerResult{
		Outcome:  res.Outcome,
		Field:    copyField(res.Field),
		Next:     copyField(res.Next),
		Problem:  res.Err,
		Workflow: draft.Clone(),
	}, nil
}

// Restart clears every value and the conversation, keeping the extracted
// fields.
func (s *WorkflowService) Restart(ctx context.Context, ownerID, id string) (*models.Workflow, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	draft := sess.wf.Clone()
	if draft.Stage == models.StageUpload {
		return draft, nil
	}
	s.engine(draft).Restart()
	draft.UpdatedAt = s.now().UTC()
	if err := s.commit(ctx, sess, draft, true); err != nil {
		return nil, err
	}
	s.logger.Info("workflow restarted", "workflow_id", id)
	return draft.Clone(), nil
}

// RenderDocument substitutes the collected values into the uploaded text.
// It is only available once the workflow reached review.
func (s *WorkflowService) RenderDocument(ctx context.Context, ownerID, id string) (*Document, error) {
	sess, err := s.acquire(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	if !sess.wf.IsComplete() {
		return nil, fmt.Errorf("%w: %d fields missing", ErrNotReady, sess.wf.MissingFields())
	}

	out := render.Render(sess.wf.OriginalText, sess.wf.Fields)
	for _, c := range out.Conflicts {
		s.logger.Warn("overlapping placeholders", "workflow_id", id, "placeholder", c.Placeholder, "contained_in", c.ContainedIn)
	}
	return &Document{
		Text:      out.Text,
		Filename:  render.CompletedFilename(sess.wf.Filename),
		Conflicts: out.Conflicts,
	}, nil
}

// acquire returns the locked session of workflow id. The caller must hand
// it back with release.
func (s *WorkflowService) acquire(ctx context.Context, ownerID, id string) (*session, error) {
	for {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		if !ok {
			sess = &session{id: id}
			s.sessions[id] = sess
		}
		s.mu.Unlock()

		sess.mu.Lock()
		if sess.released {
			// Dropped while we waited; a newer session may exist.
			sess.mu.Unlock()
			continue
		}
		if sess.wf == nil {
			wf, err := s.store.GetWorkflow(ctx, id)
			if err != nil {
				s.release(sess)
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrNotFound
				}
				return nil, fmt.Errorf("failed to load workflow: %w", err)
			}
			sess.wf = wf
		}
		if sess.wf.OwnerID != ownerID {
			s.release(sess)
			return nil, ErrNotFound
		}
		return sess, nil
	}
}

// release unlocks sess, first dropping it from the session map unless it
// holds unsaved answers.
func (s *WorkflowService) release(sess *session) {
	if !sess.dirty {
		sess.released = true
		s.mu.Lock()
		if s.sessions[sess.id] == sess {
			delete(s.sessions, sess.id)
		}
		s.mu.Unlock()
	}
	sess.mu.Unlock()
}

// commit installs draft as the session state, writing it through first when
// persist is set. A failed write leaves the session untouched.
func (s *WorkflowService) commit(ctx context.Context, sess *session, draft *models.Workflow, persist bool) error {
	if persist {
		if err := s.store.SaveWorkflow(ctx, draft); err != nil {
			s.logger.Error("failed to save workflow", "workflow_id", draft.ID, "error", err)
			return fmt.Errorf("failed to save workflow: %w", err)
		}
	}
	sess.wf = draft
	sess.dirty = !persist
	return nil
}

func (s *WorkflowService) engine(wf *models.Workflow) *dialogue.Engine {
	return dialogue.New(wf, dialogue.WithClock(func() time.Time { return s.now().UTC() }))
}

func copyField(f *models.Field) *models.Field {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

func analysisText(a extraction.Analysis) string {
	return fmt.Sprintf("**Analysis complete**\n\n"+
		"I processed your document and identified %d fields.\n\n"+
		"Key findings:\n"+
		"- Document type: %s\n"+
		"- Jurisdiction detected: %s\n\n"+
		"Let's complete these fields together.",
		a.FieldCount, a.DocumentType, a.Jurisdiction)
}
