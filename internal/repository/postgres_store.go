package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexflow/backend/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS owners (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS workflows (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	template_id     TEXT NOT NULL,
	name            TEXT NOT NULL,
	status          TEXT NOT NULL,
	stage           TEXT NOT NULL,
	filename        TEXT NOT NULL DEFAULT '',
	original_text   TEXT NOT NULL DEFAULT '',
	fields          JSONB NOT NULL DEFAULT '[]',
	conversation    JSONB NOT NULL DEFAULT '[]',
	active_field_id TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	completed_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS workflows_owner_created_idx ON workflows (owner_id, created_at DESC);
`

// uniqueViolation is the SQLSTATE of a unique constraint failure.
const uniqueViolation = "23505"

const workflowColumns = `id, owner_id, template_id, name, status, stage, filename, original_text,
	fields, conversation, active_field_id, created_at, updated_at, completed_at`

// PostgresStore is a PostgreSQL implementation of Repository.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// SaveWorkflow upserts a workflow as a single row write.
func (s *PostgresStore) SaveWorkflow(ctx context.Context, wf *models.Workflow) error {
	fields, err := json.Marshal(nonNilFields(wf.Fields))
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	conversation, err := json.Marshal(nonNilTurns(wf.Conversation))
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO workflows (`+workflowColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			stage = EXCLUDED.stage,
			filename = EXCLUDED.filename,
			original_text = EXCLUDED.original_text,
			fields = EXCLUDED.fields,
			conversation = EXCLUDED.conversation,
			active_field_id = EXCLUDED.active_field_id,
			updated_at = EXCLUDED.updated_at,
			completed_at = EXCLUDED.completed_at`,
		wf.ID, wf.OwnerID, wf.TemplateID, wf.Name, string(wf.Status), string(wf.Stage), wf.Filename,
		wf.OriginalText, fields, conversation, wf.ActiveFieldID, wf.CreatedAt, wf.UpdatedAt, wf.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", wf.ID, err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *PostgresStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	row := s.db.QueryRow(ctx, "SELECT "+workflowColumns+" FROM workflows WHERE id = $1", id)
	wf, err := scanWorkflow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return wf, nil
}

// ListWorkflows returns an owner's workflows, newest first.
func (s *PostgresStore) ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+workflowColumns+" FROM workflows WHERE owner_id = $1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workflows := []*models.Workflow{}
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, rows.Err()
}

// GetOwnerByEmail looks an owner up by email, case-insensitively.
func (s *PostgresStore) GetOwnerByEmail(ctx context.Context, email string) (*models.Owner, error) {
	var o models.Owner
	err := s.db.QueryRow(ctx, "SELECT id, email, name, created_at FROM owners WHERE email = $1",
		strings.ToLower(email)).Scan(&o.ID, &o.Email, &o.Name, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOwner inserts an owner, assigning ID and CreatedAt when unset.
func (s *PostgresStore) CreateOwner(ctx context.Context, owner *models.Owner) error {
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = time.Now().UTC()
	}
	owner.Email = strings.ToLower(owner.Email)
	_, err := s.db.Exec(ctx, "INSERT INTO owners (id, email, name, created_at) VALUES ($1, $2, $3, $4)",
		owner.ID, owner.Email, owner.Name, owner.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("owner %s: %w", owner.Email, ErrConflict)
	}
	return err
}

func scanWorkflow(row pgx.Row) (*models.Workflow, error) {
	var (
		wf                   models.Workflow
		status, stage        string
		fields, conversation []byte
	)
	err := row.Scan(&wf.ID, &wf.OwnerID, &wf.TemplateID, &wf.Name, &status, &stage, &wf.Filename,
		&wf.OriginalText, &fields, &conversation, &wf.ActiveFieldID, &wf.CreatedAt, &wf.UpdatedAt, &wf.CompletedAt)
	if err != nil {
		return nil, err
	}
	wf.Status = models.Status(status)
	wf.Stage = models.Stage(stage)
	if err := json.Unmarshal(fields, &wf.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of %s: %w", wf.ID, err)
	}
	if err := json.Unmarshal(conversation, &wf.Conversation); err != nil {
		return nil, fmt.Errorf("failed to decode conversation of %s: %w", wf.ID, err)
	}
	return &wf, nil
}

func nonNilFields(f []models.Field) []models.Field {
	if f == nil {
		return []models.Field{}
	}
	return f
}

func nonNilTurns(t []models.ConversationTurn) []models.ConversationTurn {
	if t == nil {
		return []models.ConversationTurn{}
	}
	return t
}

var _ Repository = (*PostgresStore)(nil)
