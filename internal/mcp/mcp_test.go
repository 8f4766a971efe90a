package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sonce/newsctl/internal/config"
)

// testSetup creates a temporary site root with the canonical layout.
func testSetup(t *testing.T) (*Handlers, config.Paths) {
	t.Helper()

	root := t.TempDir()
	cfg := config.DefaultConfig()
	paths, err := cfg.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for _, dir := range []string{paths.ContentDir, paths.IncomingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
	}
	return NewHandlers(cfg, paths), paths
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestHandleCreate(t *testing.T) {
	h, paths := testSetup(t)

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"title":   "Community Garden Opens",
		"date":    "2024-03-05",
		"summary": "The new community garden welcomes its first visitors.",
		"body":    strings.Repeat("The garden opened on a sunny spring morning. ", 4),
	}))
	if err != nil {
		t.Fatalf("HandleCreate failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var payload struct {
		Filename string `json:"filename"`
		Slug     string `json:"slug"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}
	if payload.Filename != "2024-03-05-community-garden-opens.md" {
		t.Errorf("filename = %q", payload.Filename)
	}
	if _, err := os.Stat(filepath.Join(paths.ContentDir, payload.Filename)); err != nil {
		t.Errorf("created file missing: %v", err)
	}
}

func TestHandleCreate_MissingTitle(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"date": "2024-03-05",
	}))
	if err != nil {
		t.Fatalf("HandleCreate failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error")
	}
	if !strings.Contains(resultText(t, result), "INVALID_REQUEST") {
		t.Errorf("result = %s", resultText(t, result))
	}
}

func TestHandleSlugify(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleSlugify(context.Background(), makeRequest(map[string]any{
		"title": "Čudovita Novica!",
	}))
	if err != nil {
		t.Fatalf("HandleSlugify failed: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}
	if payload["slug"] != "cudovita-novica" {
		t.Errorf("slug = %q, want cudovita-novica", payload["slug"])
	}
}

func TestHandleValidateAndRebuildIndex(t *testing.T) {
	h, paths := testSetup(t)

	unit := "---\ntitle: \"Broken Date Post\"\ndate: 2024-13-40\nslug: broken\n---\n\nBody.\n"
	if err := os.WriteFile(filepath.Join(paths.ContentDir, "2024-01-01-broken.md"), []byte(unit), 0o644); err != nil {
		t.Fatalf("Failed to write unit: %v", err)
	}

	result, err := h.HandleValidate(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleValidate failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "date must be YYYY-MM-DD") {
		t.Errorf("validation output missing date error: %s", text)
	}

	if _, err := os.Stat(paths.IndexFile); err != nil {
		t.Errorf("validate should rebuild the index: %v", err)
	}

	result, err = h.HandleRebuildIndex(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleRebuildIndex failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), `"indexed":1`) &&
		!strings.Contains(resultText(t, result), `"indexed": 1`) {
		t.Errorf("rebuild output = %s", resultText(t, result))
	}
}

func TestHandleList_EmptySite(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleList failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), `"count":0`) &&
		!strings.Contains(resultText(t, result), `"count": 0`) {
		t.Errorf("result = %s", resultText(t, result))
	}
}

func TestHandleImport_MissingBundle(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{
		"path": "/nonexistent/bundle.zip",
	}))
	if err != nil {
		t.Fatalf("HandleImport failed: %v", err)
	}
	// A bad bundle is recorded in the run results, not a tool error.
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), `"failed"`) {
		t.Errorf("result = %s", resultText(t, result))
	}
}

func TestNewServer_DisabledToolsExcluded(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"news_import"}
	paths, err := cfg.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	s := NewServer(cfg, paths, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"news_create", "no_such_tool"})
	if len(unknown) != 1 || unknown[0] != "no_such_tool" {
		t.Errorf("unknown = %v", unknown)
	}
}
