package repository

import (
	"context"
	"errors"

	"lexflow/backend/pkg/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a record with the same unique key exists.
	ErrConflict = errors.New("repository: already exists")
)

// WorkflowStore persists workflow records.
type WorkflowStore interface {
	// SaveWorkflow inserts or replaces a workflow by ID.
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	// GetWorkflow retrieves a workflow by its ID.
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	// ListWorkflows returns an owner's workflows, newest first.
	ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error)
}

// OwnerStore persists accounts.
type OwnerStore interface {
	GetOwnerByEmail(ctx context.Context, email string) (*models.Owner, error)
	// CreateOwner returns ErrConflict when the email is taken.
	CreateOwner(ctx context.Context, owner *models.Owner) error
}

// Repository is the full persistence surface used by the server.
type Repository interface {
	WorkflowStore
	OwnerStore
	Ping(ctx context.Context) error
}
