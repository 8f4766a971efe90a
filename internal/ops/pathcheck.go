package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sonce/newsctl/internal/errors"
)

// ValidateBundlePath checks a bundle argument before it is opened:
// traversal-free, .zip extension, exists, and not a symlink. Symlinked
// bundles are rejected early for a clearer error; the open helpers use
// O_NOFOLLOW as well.
func ValidateBundlePath(path string) error {
	if path == "" {
		return errors.NewInvalidRequest("bundle path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("bundle path must not contain directory traversal (..)")
	}
	if strings.ToLower(filepath.Ext(filepath.Clean(path))) != ".zip" {
		return errors.NewInvalidRequest("bundle path must have .zip extension")
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFound(path)
		}
		return errors.NewInternal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("bundle path must not be a symlink")
	}
	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Zip entry names and user input use forward slashes on all platforms.
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename sanitizes a string for safe use in a filename.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "unnamed"
	}
	return s
}
