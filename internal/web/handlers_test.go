package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/ops"
)

func newTestServer(t *testing.T) (http.Handler, config.Paths) {
	t.Helper()

	root := t.TempDir()
	cfg := config.DefaultConfig()
	paths, err := cfg.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if err := os.MkdirAll(paths.ContentDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	unit := "---\n" +
		"title: \"Community Garden Opens\"\n" +
		"date: 2024-03-05\n" +
		"slug: community-garden-opens\n" +
		"summary: \"The new community garden welcomes its first visitors.\"\n" +
		"---\n\n" +
		"The garden opened on a **sunny** morning.\n\n" +
		strings.Repeat("More paragraphs follow with enough text to pass checks. ", 2) + "\n"
	if err := os.WriteFile(filepath.Join(paths.ContentDir, "2024-03-05-community-garden-opens.md"),
		[]byte(unit), 0o644); err != nil {
		t.Fatalf("Failed to write unit: %v", err)
	}
	if _, err := ops.BuildIndex(cfg, paths); err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	srv := NewServer(cfg, paths, "test", "127.0.0.1", 0)
	return srv.Handler, paths
}

func TestHandleList(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Community Garden Opens") {
		t.Errorf("list missing post title:\n%s", body)
	}
	if !strings.Contains(body, "/news/2024-03-05-community-garden-opens") {
		t.Errorf("list missing detail link:\n%s", body)
	}
}

func TestHandleDetail(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/news/2024-03-05-community-garden-opens", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>sunny</strong>") {
		t.Errorf("body not rendered as markdown:\n%s", body)
	}
}

func TestHandleDetail_BySlug(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/news/community-garden-opens", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/news/no-such-post", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_NotFoundJSON(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/news/no-such-post", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Errorf("body missing error code:\n%s", rec.Body.String())
	}
}

func TestRootRedirects(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/news" {
		t.Errorf("Location = %q, want /news", loc)
	}
}

func TestUploadsServedFromDisk(t *testing.T) {
	handler, paths := newTestServer(t)

	dir := filepath.Join(paths.UploadsDir, "2024", "03")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hero.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("Failed to write asset: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/static/uploads/news/2024/03/hero.jpg", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "jpegdata" {
		t.Error("asset body mismatch")
	}
}
