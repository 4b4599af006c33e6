package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexflow/backend/internal/extraction"
	"lexflow/backend/pkg/models"
)

const incorporationText = "CERTIFICATE OF INCORPORATION of [Company Name], a Delaware corporation. " +
	"The corporation is authorized to issue [Number of Shares] shares."

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestExtractFieldsTool(t *testing.T) {
	s := NewServer(nil)
	res, err := s.handleExtractFields(context.Background(), callRequest(map[string]interface{}{"text": incorporationText}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out extraction.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out.Fields, 2)
	assert.Equal(t, "Company Legal Name", out.Fields[0].Label)
	assert.Equal(t, models.FieldTypeNumber, out.Fields[1].Type)
	assert.Equal(t, "Delaware", out.Analysis.Jurisdiction)
}

func TestExtractFieldsTool_MissingText(t *testing.T) {
	s := NewServer(nil)
	res, err := s.handleExtractFields(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestDetectDocumentTool(t *testing.T) {
	s := NewServer(nil)
	res, err := s.handleDetectDocument(context.Background(), callRequest(map[string]interface{}{"text": incorporationText}))
	require.NoError(t, err)

	var out extraction.Analysis
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, extraction.DetectDocumentType(incorporationText), out.DocumentType)
	assert.Equal(t, "Delaware", out.Jurisdiction)
}

func TestRenderDocumentTool(t *testing.T) {
	s := NewServer(nil)
	res, err := s.handleRenderDocument(context.Background(), callRequest(map[string]interface{}{
		"text": incorporationText,
		"values": map[string]interface{}{
			"Company Name": "Acme Robotics, Inc.",
		},
	}))
	require.NoError(t, err)

	var out renderResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "CERTIFICATE OF INCORPORATION of Acme Robotics, Inc., a Delaware corporation. "+
		"The corporation is authorized to issue [Number of Shares] shares.", out.Text)
	assert.Equal(t, []string{"Number of Shares"}, out.Missing)

	res, err = s.handleRenderDocument(context.Background(), callRequest(map[string]interface{}{
		"text":   incorporationText,
		"values": map[string]interface{}{"field_1": float64(10000000)},
	}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Contains(t, out.Text, "issue 10000000 shares")
}

func TestListTemplatesTool(t *testing.T) {
	s := NewServer(nil)
	res, err := s.handleListTemplates(context.Background(), callRequest(nil))
	require.NoError(t, err)

	var out []models.Template
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Len(t, out, 3)
}
