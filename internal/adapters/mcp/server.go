package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

const (
	serverName = "doc-translator"

	toolTranslateText      = "translate_text"
	toolDetectDirection    = "detect_direction"
	toolTranslateDocuments = "translate_documents"
)

type Dependencies struct {
	Translator ports.TextTranslator
	Documents  ports.DocumentTranslator
	Directions ports.DirectionResolver
	// OutputDir is used when a translate_documents call names none.
	OutputDir string
}

// Tools exposes the translation use cases as MCP tools.
type Tools struct {
	deps Dependencies
}

func NewTools(deps Dependencies) *Tools {
	return &Tools{deps: deps}
}

// NewServer builds an MCP server with every translation tool registered.
func NewServer(version string, deps Dependencies) *server.MCPServer {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	NewTools(deps).Register(s)
	return s
}

func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(toolTranslateText,
		mcp.WithDescription("Translate text between English and French."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to translate.")),
		mcp.WithString("direction",
			mcp.Description("en-fr, fr-en or auto to detect from the text."),
			mcp.Enum("auto", string(domain.DirectionEnFr), string(domain.DirectionFrEn)),
		),
		mcp.WithString("model", mcp.Description("Model override for the translation API.")),
	), t.handleTranslateText)

	s.AddTool(mcp.NewTool(toolDetectDirection,
		mcp.WithDescription("Guess whether a text should be translated en-fr or fr-en."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text sample.")),
	), t.handleDetectDirection)

	s.AddTool(mcp.NewTool(toolTranslateDocuments,
		mcp.WithDescription("Translate .txt, .docx, .pdf and .xlsx files on the server's filesystem."),
		mcp.WithArray("paths", mcp.Required(), mcp.Description("Input file paths."), mcp.WithStringItems()),
		mcp.WithString("mode",
			mcp.Description("en-fr, fr-en or auto."),
			mcp.Enum("auto", string(domain.DirectionEnFr), string(domain.DirectionFrEn)),
		),
		mcp.WithString("output_dir", mcp.Description("Directory for translated files.")),
		mcp.WithString("model", mcp.Description("Model override for the translation API.")),
	), t.handleTranslateDocuments)
}

func (t *Tools) handleTranslateText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := domain.ParseMode(req.GetString("direction", domain.ModeAuto))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	direction := t.deps.Directions.Resolve(mode, text)
	translated, err := t.deps.Translator.Translate(ctx, text, direction, req.GetString("model", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("translate %s: %v", direction, err)), nil
	}
	return mcp.NewToolResultText(translated), nil
}

func (t *Tools) handleDetectDirection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(t.deps.Directions.Detect(text).String()), nil
}

func (t *Tools) handleTranslateDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := req.RequireStringSlice("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inputs := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			inputs = append(inputs, p)
		}
	}
	if len(inputs) == 0 {
		return mcp.NewToolResultError("paths must name at least one file"), nil
	}
	mode, err := domain.ParseMode(req.GetString("mode", domain.ModeAuto))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := t.deps.Documents.TranslateDocuments(ctx, domain.BatchRequest{
		Inputs:    inputs,
		Mode:      mode,
		OutputDir: req.GetString("output_dir", t.deps.OutputDir),
		Model:     req.GetString("model", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v (completed %d of %d)", err, len(results), len(inputs))), nil
	}

	payload, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
