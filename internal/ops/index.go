package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/post"
)

// BuildIndexOutput contains the result of one index build.
type BuildIndexOutput struct {
	Records []post.IndexRecord `json:"records"`
	Reports []FileReport       `json:"reports,omitempty"`
	Indexed int                `json:"indexed"`
}

// BuildIndex scans the content directory, parses and validates every unit,
// and rewrites the index document wholesale. Invalid units still get a
// record: the index always reflects everything on disk, and consumers are
// expected to handle absent fields. Only an unlistable content directory
// aborts the build; in that case the prior index is left untouched.
func BuildIndex(cfg *config.Config, paths config.Paths) (*BuildIndexOutput, error) {
	names, err := ListPostFiles(paths.ContentDir)
	if err != nil {
		return nil, err
	}

	contentWebPath := "/" + filepath.ToSlash(cfg.ContentDir)
	rules := post.DefaultRules(cfg.AssetPrefix)

	records := make([]post.IndexRecord, 0, len(names))
	var reports []FileReport
	seenSlugs := make(map[string]string)

	for _, name := range names {
		p, err := ReadPost(filepath.Join(paths.ContentDir, name))
		if err != nil {
			// The unit still appears in the index, bare, so the document
			// keeps reflecting the full directory contents.
			reports = append(reports, FileReport{
				Filename: name,
				Errors:   []string{err.Error()},
			})
			records = append(records, post.IndexRecord{
				Filename: name,
				Path:     contentWebPath + "/" + name,
			})
			continue
		}

		report := post.Validate(p, rules)

		if slug := p.Slug(); slug != "" {
			if first, dup := seenSlugs[slug]; dup {
				report.Errors = append(report.Errors,
					fmt.Sprintf("slug %q already used by %s", slug, first))
			} else {
				seenSlugs[slug] = name
			}
		}

		if report.HasProblems() {
			reports = append(reports, FileReport{
				Filename: name,
				Errors:   report.Errors,
				Warnings: report.Warnings,
			})
		}
		records = append(records, post.NewIndexRecord(p, contentWebPath, cfg.ExcerptMaxChars))
	}

	// Date descending, plain string comparison on the ISO form. Stable, so
	// equal dates keep directory order and repeated builds stay identical.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})

	if err := writeIndex(paths.IndexFile, records); err != nil {
		return nil, err
	}

	return &BuildIndexOutput{
		Records: records,
		Reports: reports,
		Indexed: len(records),
	}, nil
}

// writeIndex persists the index as a bare JSON array via temp file and
// rename, so readers never observe a partial document and unchanged input
// produces byte-identical output.
func writeIndex(path string, records []post.IndexRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return errors.NewFatal("cannot write index", err)
	}
	return nil
}

// LoadIndex reads an index document. Both persisted forms are accepted: a
// bare array of records, or an object wrapping the array under a
// conventional key.
func LoadIndex(path string) ([]post.IndexRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}

	var records []post.IndexRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("unrecognized index document %s: %w", path, err))
	}
	for _, key := range []string{"posts", "items", "news", "records"} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("unrecognized index document %s: %w", path, err))
		}
		return records, nil
	}
	return nil, errors.NewInternal(fmt.Errorf("unrecognized index document %s: no record list found", path))
}
