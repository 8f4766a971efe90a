package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds pipeline configuration. All directory values are relative to
// the site root passed to Resolve, so multiple content roots can be built,
// validated, and imported independently.
type Config struct {
	// ContentDir is the directory holding raw post files, relative to root.
	ContentDir string `json:"content_dir,omitempty"`

	// UploadsDir is the dated asset directory, relative to root.
	UploadsDir string `json:"uploads_dir,omitempty"`

	// IncomingDir is where upload bundles are dropped, relative to root.
	IncomingDir string `json:"incoming_dir,omitempty"`

	// OutputDir is where `create --bundle` writes upload zips, relative to root.
	OutputDir string `json:"output_dir,omitempty"`

	// IndexFile is the index document filename inside ContentDir.
	IndexFile string `json:"index_file,omitempty"`

	// AssetPrefix is the absolute web path prefix that hero images and
	// inline image references must resolve under.
	AssetPrefix string `json:"asset_prefix,omitempty"`

	// ExcerptMaxChars bounds generated excerpts (runes, not bytes).
	ExcerptMaxChars int `json:"excerpt_max_chars,omitempty"`

	// MaxImageSizeMB caps hero images copied by the create operation.
	MaxImageSizeMB int `json:"max_image_size_mb,omitempty"`

	// AllowedImageExts lists accepted hero image extensions (with dot).
	AllowedImageExts []string `json:"allowed_image_exts,omitempty"`

	// WatchIntervalSeconds is the polling interval for the watch loop.
	WatchIntervalSeconds int `json:"watch_interval_seconds,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// Paths holds the absolute locations derived from a Config and a site root.
type Paths struct {
	Root         string
	ContentDir   string
	UploadsDir   string
	IncomingDir  string
	ProcessedDir string
	OutputDir    string
	IndexFile    string
}

// DefaultConfig returns the default configuration, matching the canonical
// site layout (content/news, static/uploads/news, incoming).
func DefaultConfig() *Config {
	return &Config{
		ContentDir:           filepath.Join("content", "news"),
		UploadsDir:           filepath.Join("static", "uploads", "news"),
		IncomingDir:          "incoming",
		OutputDir:            "output",
		IndexFile:            "index.json",
		AssetPrefix:          "/static/uploads/news",
		ExcerptMaxChars:      180,
		MaxImageSizeMB:       10,
		AllowedImageExts:     []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"},
		WatchIntervalSeconds: 5,
	}
}

// Load loads configuration from root/.newsctl/config.json, merged over
// defaults. A missing file yields the defaults.
func Load(root string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(root, ".newsctl", "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.ContentDir = overlayString(base.ContentDir, overlay.ContentDir)
	result.UploadsDir = overlayString(base.UploadsDir, overlay.UploadsDir)
	result.IncomingDir = overlayString(base.IncomingDir, overlay.IncomingDir)
	result.OutputDir = overlayString(base.OutputDir, overlay.OutputDir)
	result.IndexFile = overlayString(base.IndexFile, overlay.IndexFile)
	result.AssetPrefix = overlayString(base.AssetPrefix, overlay.AssetPrefix)

	result.ExcerptMaxChars = overlay.ExcerptMaxChars
	if result.ExcerptMaxChars == 0 {
		result.ExcerptMaxChars = base.ExcerptMaxChars
	}
	result.MaxImageSizeMB = overlay.MaxImageSizeMB
	if result.MaxImageSizeMB == 0 {
		result.MaxImageSizeMB = base.MaxImageSizeMB
	}
	result.WatchIntervalSeconds = overlay.WatchIntervalSeconds
	if result.WatchIntervalSeconds == 0 {
		result.WatchIntervalSeconds = base.WatchIntervalSeconds
	}

	// AllowedImageExts: overlay replaces entirely when set, so a site can
	// narrow the allowlist rather than only extend it.
	result.AllowedImageExts = base.AllowedImageExts
	if len(overlay.AllowedImageExts) > 0 {
		result.AllowedImageExts = overlay.AllowedImageExts
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Resolve converts the relative configuration into absolute paths under root.
func (c *Config) Resolve(root string) (Paths, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Root:         abs,
		ContentDir:   filepath.Join(abs, c.ContentDir),
		UploadsDir:   filepath.Join(abs, c.UploadsDir),
		IncomingDir:  filepath.Join(abs, c.IncomingDir),
		ProcessedDir: filepath.Join(abs, c.IncomingDir, "processed"),
		OutputDir:    filepath.Join(abs, c.OutputDir),
		IndexFile:    filepath.Join(abs, c.ContentDir, c.IndexFile),
	}, nil
}

// ImageExtAllowed reports whether ext (with dot, any case) is in the allowlist.
func (c *Config) ImageExtAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedImageExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
