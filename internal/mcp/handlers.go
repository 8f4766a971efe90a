package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/ops"
	"github.com/sonce/newsctl/internal/post"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg   *config.Config
	paths config.Paths
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, paths config.Paths) *Handlers {
	return &Handlers{cfg: cfg, paths: paths}
}

// Request types for each tool

// CreateRequest represents the arguments for create.
type CreateRequest struct {
	Title     string   `json:"title"`
	Date      string   `json:"date,omitempty"`
	Slug      string   `json:"slug,omitempty"`
	Author    string   `json:"author,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Body      string   `json:"body,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	ImagePath string   `json:"image_path,omitempty"`
	ImageAlt  string   `json:"image_alt,omitempty"`
	Draft     bool     `json:"draft,omitempty"`
	Force     bool     `json:"force,omitempty"`
	Bundle    bool     `json:"bundle,omitempty"`
}

// SlugifyRequest represents the arguments for slugify.
type SlugifyRequest struct {
	Title string `json:"title"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path,omitempty"`
}

// CheckBundleRequest represents the arguments for check_bundle.
type CheckBundleRequest struct {
	Path string `json:"path"`
}

// Handler implementations

// HandleCreate handles the create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(h.cfg, h.paths, ops.CreateInput{
		Title:     input.Title,
		Date:      input.Date,
		Slug:      input.Slug,
		Author:    input.Author,
		Summary:   input.Summary,
		Body:      input.Body,
		Tags:      input.Tags,
		ImagePath: input.ImagePath,
		ImageAlt:  input.ImageAlt,
		Draft:     input.Draft,
		Force:     input.Force,
		Bundle:    input.Bundle,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSlugify handles the slugify tool call.
func (h *Handlers) HandleSlugify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SlugifyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Title == "" {
		return errorResult(errors.NewInvalidRequest("title is required")), nil
	}

	return successResult(map[string]string{
		"title": input.Title,
		"slug":  post.Slugify(input.Title),
	})
}

// HandleValidate handles the validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ValidateAll(h.cfg, h.paths)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRebuildIndex handles the rebuild_index tool call.
func (h *Handlers) HandleRebuildIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.BuildIndex(h.cfg, h.paths)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"indexed": result.Indexed,
		"reports": result.Reports,
	})
}

// HandleImport handles the import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var result *ops.ImportOutput
	if input.Path != "" {
		result, err = ops.ImportBundles(h.cfg, h.paths, []string{input.Path})
	} else {
		result, err = ops.ImportIncoming(h.cfg, h.paths)
	}
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCheckBundle handles the check_bundle tool call.
func (h *Handlers) HandleCheckBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckBundleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CheckBundle(h.cfg, input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := ops.LoadIndex(h.paths.IndexFile)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return successResult(map[string]any{"posts": []post.IndexRecord{}, "count": 0})
		}
		return errorResult(err), nil
	}
	return successResult(map[string]any{"posts": records, "count": len(records)})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed to avoid leaking file paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if nErr, ok := err.(*errors.NewsError); ok {
		errorObj := map[string]any{
			"code":    nErr.Code,
			"message": nErr.Message,
			"status":  nErr.Status,
		}
		if nErr.Code != errors.ErrInternal && nErr.Details != nil {
			errorObj["details"] = nErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
