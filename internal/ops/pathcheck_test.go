package ops

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sonce/newsctl/internal/errors"
)

func TestValidateBundlePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "bundle.zip")
	if err := os.WriteFile(good, []byte("zip"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := ValidateBundlePath(good); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode errors.ErrorCode
	}{
		{"empty", "", errors.ErrInvalidRequest},
		// Built by concatenation: filepath.Join would clean the ".." away.
		{"traversal", dir + string(filepath.Separator) + ".." + string(filepath.Separator) + "bundle.zip", errors.ErrInvalidRequest},
		{"relative traversal", filepath.Join("..", "bundle.zip"), errors.ErrInvalidRequest},
		{"wrong extension", filepath.Join(dir, "bundle.tar"), errors.ErrInvalidRequest},
		{"missing file", filepath.Join(dir, "absent.zip"), errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBundlePath(tt.path)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateBundlePath_RejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "real.zip")
	if err := os.WriteFile(target, []byte("zip"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	link := filepath.Join(dir, "link.zip")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	err := ValidateBundlePath(link)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"a/b\\c", "a-b-c"},
		{"../../etc", "etc"},
		{"", "unnamed"},
		{"---", "unnamed"},
		{"two--dashes", "two-dashes"},
	}

	for _, tt := range tests {
		if got := SanitizeForFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeForFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
