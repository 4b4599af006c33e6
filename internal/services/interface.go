package services

import (
	"context"

	"lexflow/backend/pkg/models"
)

// Workflows is the workflow surface consumed by the HTTP API.
type Workflows interface {
	Templates() []models.Template
	CreateWorkflow(ctx context.Context, ownerID, templateID string) (*models.Workflow, error)
	GetWorkflow(ctx context.Context, ownerID, id string) (*models.Workflow, error)
	ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error)
	UploadDocument(ctx context.Context, ownerID, id, filename, text string) (*models.Workflow, error)
	StartDialogue(ctx context.Context, ownerID, id string) (*models.Workflow, error)
	SubmitAnswer(ctx context.Context, ownerID, id, answer string) (*AnswerResult, error)
	Restart(ctx context.Context, ownerID, id string) (*models.Workflow, error)
	RenderDocument(ctx context.Context, ownerID, id string) (*Document, error)
}

var _ Workflows = (*WorkflowService)(nil)
