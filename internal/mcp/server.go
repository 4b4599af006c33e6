package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"lexflow/backend/internal/extraction"
	"lexflow/backend/internal/render"
	"lexflow/backend/pkg/models"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the document tools over the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	extractor *extraction.Extractor
}

func NewServer(extractor *extraction.Extractor) *Server {
	if extractor == nil {
		extractor = extraction.NewExtractor(nil)
	}
	s := &Server{
		mcpServer: server.NewMCPServer(
			"LexFlow Documents",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		extractor: extractor,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"extract_fields",
			mcp.WithDescription("Find the placeholders of a legal document and classify them into fields"),
			mcp.WithString("text", mcp.Required(), mcp.Description("The plain text of the document")),
		),
		s.handleExtractFields,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"detect_document",
			mcp.WithDescription("Detect the document type and governing jurisdiction"),
			mcp.WithString("text", mcp.Required(), mcp.Description("The plain text of the document")),
		),
		s.handleDetectDocument,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"render_document",
			mcp.WithDescription("Fill a document's placeholders with values"),
			mcp.WithString("text", mcp.Required(), mcp.Description("The plain text of the document")),
			mcp.WithObject("values", mcp.Required(), mcp.Description("Values keyed by placeholder name or field id")),
		),
		s.handleRenderDocument,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_templates",
			mcp.WithDescription("List the workflow templates"),
		),
		s.handleListTemplates,
	)
}

func (s *Server) handleExtractFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, errResult := textArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to extract fields: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Server) handleDetectDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, errResult := textArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	return jsonResult(extraction.Analysis{
		DocumentType: extraction.DetectDocumentType(text),
		Jurisdiction: extraction.DetectJurisdiction(text),
	})
}

type renderResult struct {
	Text      string            `json:"text"`
	Missing   []string          `json:"missing"`
	Conflicts []render.Conflict `json:"conflicts,omitempty"`
}

func (s *Server) handleRenderDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, errResult := textArgument(request)
	if errResult != nil {
		return errResult, nil
	}
	args := request.Params.Arguments.(map[string]interface{})
	values, ok := args["values"].(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: values"), nil
	}

	res, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to extract fields: %v", err)), nil
	}

	out := renderResult{Missing: []string{}}
	for i := range res.Fields {
		f := &res.Fields[i]
		v, ok := values[f.Placeholder]
		if !ok {
			v, ok = values[f.ID]
		}
		if !ok || v == nil {
			out.Missing = append(out.Missing, f.Placeholder)
			continue
		}
		f.Value = valueString(v)
	}

	rendered := render.Render(text, res.Fields)
	out.Text = rendered.Text
	out.Conflicts = rendered.Conflicts
	return jsonResult(out)
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(models.Templates)
}

func valueString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func textArgument(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", mcp.NewToolResultError("Invalid arguments type")
	}

	text, ok := args["text"].(string)
	if !ok || text == "" {
		return "", mcp.NewToolResultError("Missing required parameter: text")
	}
	return text, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers serves the SSE transport under /mcp.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
