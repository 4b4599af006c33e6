// Package api contains the HTTP handlers for the workflow service
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lexflow/backend/internal/auth"
	"lexflow/backend/internal/dialogue"
	"lexflow/backend/internal/services"
	"lexflow/backend/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflows services.Workflows
}

// NewServer creates a new Server.
func NewServer(workflows services.Workflows) *Server {
	return &Server{Workflows: workflows}
}

// RegisterRoutes mounts the workflow API on g, which is expected to be the
// authenticated /api/v1 group.
func RegisterRoutes(g *echo.Group, s *Server) {
	g.GET("/templates", s.ListTemplates)
	g.GET("/workflows", s.ListWorkflows)
	g.POST("/workflows", s.CreateWorkflow)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.POST("/workflows/:id/document", s.UploadDocument)
	g.GET("/workflows/:id/document", s.DownloadDocument)
	g.POST("/workflows/:id/dialogue", s.StartDialogue)
	g.POST("/workflows/:id/answers", s.SubmitAnswer)
	g.POST("/workflows/:id/restart", s.RestartWorkflow)
}

// CreateWorkflowRequest is the body of POST /workflows.
type CreateWorkflowRequest struct {
	TemplateID string `json:"template_id"`
}

// UploadDocumentRequest carries the plain text of a document.
type UploadDocumentRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// AnswerRequest is the body of POST /workflows/:id/answers.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse reports the effect of one answer.
type AnswerResponse struct {
	Outcome  dialogue.Outcome `json:"outcome"`
	Field    *models.Field    `json:"field,omitempty"`
	Next     *models.Field    `json:"next,omitempty"`
	Error    string           `json:"error,omitempty"`
	Workflow *models.Workflow `json:"workflow"`
}

// ListTemplates returns the workflow template catalog
// (GET /api/v1/templates)
func (s *Server) ListTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Workflows.Templates())
}

// ListWorkflows returns the caller's workflows, newest first
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	workflows, err := s.Workflows.ListWorkflows(c.Request().Context(), owner)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, workflows)
}

// CreateWorkflow starts a workflow from a template
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req CreateWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	wf, err := s.Workflows.CreateWorkflow(c.Request().Context(), owner, req.TemplateID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, wf)
}

// GetWorkflow returns one workflow
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	wf, err := s.Workflows.GetWorkflow(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, wf)
}

// UploadDocument extracts the fields of a document's text
// (POST /api/v1/workflows/:id/document)
func (s *Server) UploadDocument(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req UploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Filename) == "" {
		req.Filename = "document.txt"
	}

	wf, err := s.Workflows.UploadDocument(c.Request().Context(), owner, c.Param("id"), req.Filename, req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, wf)
}

// DownloadDocument returns the completed document as a text attachment, or
// as JSON with ?format=json
// (GET /api/v1/workflows/:id/document)
func (s *Server) DownloadDocument(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	doc, err := s.Workflows.RenderDocument(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	if c.QueryParam("format") == "json" {
		return c.JSON(http.StatusOK, doc)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Text))
}

// StartDialogue asks for the first unfilled field
// (POST /api/v1/workflows/:id/dialogue)
func (s *Server) StartDialogue(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	wf, err := s.Workflows.StartDialogue(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, wf)
}

// SubmitAnswer answers the active field. Rejected answers return 422 and
// answers with no active field 409, both with the full AnswerResponse body.
// (POST /api/v1/workflows/:id/answers)
func (s *Server) SubmitAnswer(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	res, err := s.Workflows.SubmitAnswer(c.Request().Context(), owner, c.Param("id"), req.Answer)
	if err != nil {
		return toHTTPError(err)
	}

	body := AnswerResponse{
		Outcome:  res.Outcome,
		Field:    res.Field,
		Next:     res.Next,
		Workflow: res.Workflow,
	}
	if res.Problem != nil {
		body.Error = problemText(res.Problem)
	}

	code := http.StatusOK
	switch res.Outcome {
	case dialogue.OutcomeRejected:
		code = http.StatusUnprocessableEntity
	case dialogue.OutcomeIdle:
		code = http.StatusConflict
	}
	return c.JSON(code, body)
}

// RestartWorkflow clears every collected value
// (POST /api/v1/workflows/:id/restart)
func (s *Server) RestartWorkflow(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	wf, err := s.Workflows.Restart(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, wf)
}

func ownerID(c echo.Context) (string, error) {
	owner, ok := auth.OwnerFromContext(c.Request().Context())
	if !ok || owner.ID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Owner not found in context")
	}
	return owner.ID, nil
}
