package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	stderrors "errors"

	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/post"
)

// ReadPost parses one content file into a Post. The returned post's
// Filename is the base name of the path.
func ReadPost(path string) (*post.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read %s: %w", path, err))
	}

	filename := filepath.Base(path)
	meta, body, err := post.ParseFrontmatter(string(data))
	if err != nil {
		if stderrors.Is(err, post.ErrMissingFrontmatter) {
			return nil, errors.NewMissingFrontmatter(filename)
		}
		return nil, errors.NewInternal(err)
	}

	return &post.Post{Meta: meta, Body: body, Filename: filename}, nil
}

// ListPostFiles returns the markdown filenames in contentDir, sorted by
// name. A missing or unreadable directory is a fatal condition.
func ListPostFiles(contentDir string) ([]string, error) {
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return nil, errors.NewFatal("cannot list content directory", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// WritePost serializes a post and writes it into contentDir under its
// Filename. The write goes through a temp file and rename so a crash never
// leaves a half-written unit behind.
func WritePost(contentDir string, p *post.Post) (string, error) {
	if p.Filename == "" {
		return "", errors.NewInvalidRequest("post has no filename")
	}

	content := post.FormatFrontmatter(p.Meta) + "\n" + strings.TrimLeft(p.Body, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	dest := filepath.Join(contentDir, p.Filename)
	if err := writeFileAtomic(dest, []byte(content), 0o644); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to write %s: %w", dest, err))
	}
	return dest, nil
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path. Rename within one directory is atomic on POSIX filesystems.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
