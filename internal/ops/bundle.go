package ops

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
)

// CheckBundleOutput contains the result of a dry-run bundle inspection.
type CheckBundleOutput struct {
	Bundle   string   `json:"bundle"`
	OK       bool     `json:"ok"`
	Posts    []string `json:"posts,omitempty"`
	Assets   []string `json:"assets,omitempty"`
	Problems []string `json:"problems,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CheckBundle inspects a bundle without extracting or merging anything:
// it reads the archive directory and reports what an import would do and
// what would make it fail. Senders run this before handing a zip over.
func CheckBundle(cfg *config.Config, bundle string) (*CheckBundleOutput, error) {
	if err := ValidateBundlePath(bundle); err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(bundle)
	if err != nil {
		return nil, errors.NewBadBundle(filepath.Base(bundle), fmt.Sprintf("cannot open archive: %v", err))
	}
	defer r.Close()

	out := &CheckBundleOutput{Bundle: filepath.Base(bundle)}

	for _, f := range r.File {
		name := filepath.ToSlash(f.Name)
		if strings.HasSuffix(name, "/") || f.FileInfo().IsDir() {
			continue
		}
		if name == "" || strings.HasPrefix(name, "/") || containsTraversal(name) {
			out.Problems = append(out.Problems, fmt.Sprintf("unsafe entry path %q", f.Name))
			continue
		}

		base := filepath.Base(name)
		switch {
		case strings.HasSuffix(name, ".md") && (strings.Contains(name, "content/news/") || !strings.Contains(name, "/")):
			out.Posts = append(out.Posts, base)
			if !dashedFilenameOK(base) {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("%s: filename should be YYYY-MM-DD-slug.md", base))
			}
		case assetDirPattern.MatchString(name):
			out.Assets = append(out.Assets, base)
			if !cfg.ImageExtAllowed(strings.ToLower(filepath.Ext(base))) {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("%s: extension not in image allowlist", base))
			}
		default:
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s: not under content/news or a dated uploads folder, will be ignored", name))
		}
	}

	if len(out.Posts) == 0 {
		out.Problems = append(out.Problems, "no recognizable unit in bundle")
	}
	sort.Strings(out.Posts)
	sort.Strings(out.Assets)

	out.OK = len(out.Problems) == 0
	return out, nil
}

// CheckIncoming runs CheckBundle over every zip in the incoming directory.
func CheckIncoming(cfg *config.Config, paths config.Paths) ([]*CheckBundleOutput, error) {
	entries, err := os.ReadDir(paths.IncomingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewFatal("cannot list incoming directory", err)
	}

	var outputs []*CheckBundleOutput
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".zip") {
			continue
		}
		out, err := CheckBundle(cfg, filepath.Join(paths.IncomingDir, entry.Name()))
		if err != nil {
			outputs = append(outputs, &CheckBundleOutput{
				Bundle:   entry.Name(),
				Problems: []string{err.Error()},
			})
			continue
		}
		outputs = append(outputs, out)
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Bundle < outputs[j].Bundle })
	return outputs, nil
}

var datedMarkdownName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{8})-[a-z0-9]+(-[a-z0-9]+)*\.md$`)

func dashedFilenameOK(name string) bool {
	return datedMarkdownName.MatchString(name)
}
