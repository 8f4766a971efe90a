package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ContentDir != filepath.Join("content", "news") {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if cfg.AssetPrefix != "/static/uploads/news" {
		t.Errorf("AssetPrefix = %q", cfg.AssetPrefix)
	}
	if cfg.ExcerptMaxChars != 180 {
		t.Errorf("ExcerptMaxChars = %d, want 180", cfg.ExcerptMaxChars)
	}
	if !cfg.ImageExtAllowed(".JPG") {
		t.Error("ImageExtAllowed should be case-insensitive")
	}
	if cfg.ImageExtAllowed(".exe") {
		t.Error("ImageExtAllowed should reject unknown extensions")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.IndexFile != "index.json" {
		t.Errorf("IndexFile = %q, want index.json", cfg.IndexFile)
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".newsctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"excerpt_max_chars": 120, "incoming_dir": "inbox"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ExcerptMaxChars != 120 {
		t.Errorf("ExcerptMaxChars = %d, want 120", cfg.ExcerptMaxChars)
	}
	if cfg.IncomingDir != "inbox" {
		t.Errorf("IncomingDir = %q, want inbox", cfg.IncomingDir)
	}
	// Untouched values keep defaults.
	if cfg.ContentDir != filepath.Join("content", "news") {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"news_import", "news_create"}}
	overlay := &Config{DisabledTools: []string{"news_create", "news_list"}}

	merged := Merge(base, overlay)
	want := []string{"news_import", "news_create", "news_list"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i, s := range want {
		if merged.DisabledTools[i] != s {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], s)
		}
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	root := t.TempDir()

	paths, err := cfg.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if paths.ContentDir != filepath.Join(root, "content", "news") {
		t.Errorf("ContentDir = %q", paths.ContentDir)
	}
	if paths.IndexFile != filepath.Join(root, "content", "news", "index.json") {
		t.Errorf("IndexFile = %q", paths.IndexFile)
	}
	if paths.ProcessedDir != filepath.Join(root, "incoming", "processed") {
		t.Errorf("ProcessedDir = %q", paths.ProcessedDir)
	}
}
