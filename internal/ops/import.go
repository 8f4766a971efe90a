package ops

import (
	"archive/zip"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
)

// BundleState tracks how far a single bundle got through the import.
type BundleState string

const (
	BundlePending         BundleState = "pending"
	BundleExtracted       BundleState = "extracted"
	BundleMerged          BundleState = "merged"
	BundleIndexed         BundleState = "indexed"
	BundleFailed          BundleState = "failed"
	BundlePartiallyFailed BundleState = "partially_failed"
)

// BundleResult records the outcome for one bundle.
type BundleResult struct {
	Bundle     string      `json:"bundle"`
	State      BundleState `json:"state"`
	Posts      []string    `json:"posts,omitempty"`
	Assets     []string    `json:"assets,omitempty"`
	Collisions []string    `json:"collisions,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// ImportOutput contains the result of one import run.
type ImportOutput struct {
	RunID   string         `json:"run_id"`
	Results []BundleResult `json:"results"`
	Indexed int            `json:"indexed"`
	Reports []FileReport   `json:"reports,omitempty"`
}

// Succeeded reports whether every bundle in the run reached the indexed state.
func (o *ImportOutput) Succeeded() bool {
	for _, r := range o.Results {
		if r.State != BundleIndexed {
			return false
		}
	}
	return true
}

// ImportIncoming imports every *.zip waiting in the incoming directory,
// in name order. A missing incoming directory is an empty run, not an error.
func ImportIncoming(cfg *config.Config, paths config.Paths) (*ImportOutput, error) {
	entries, err := os.ReadDir(paths.IncomingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &ImportOutput{RunID: newRunID()}, nil
		}
		return nil, errors.NewFatal("cannot list incoming directory", err)
	}

	var bundles []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".zip") {
			continue
		}
		bundles = append(bundles, filepath.Join(paths.IncomingDir, entry.Name()))
	}
	sort.Strings(bundles)

	return ImportBundles(cfg, paths, bundles)
}

// ImportBundles runs the importer over an explicit bundle list. Each bundle
// is extracted and merged independently: a collision or extraction failure
// marks that bundle failed and moves on to the next. The index is rebuilt
// exactly once after the whole batch, so the persisted document reflects
// the batch as a unit. There is no rollback; a partially failed merge
// leaves whatever the completed steps produced.
func ImportBundles(cfg *config.Config, paths config.Paths, bundles []string) (*ImportOutput, error) {
	out := &ImportOutput{RunID: newRunID()}

	merged := false
	for _, bundle := range bundles {
		result := importOne(cfg, paths, bundle)
		out.Results = append(out.Results, result)
		if result.State == BundleMerged || result.State == BundlePartiallyFailed {
			merged = true
		}
	}

	// One rebuild per batch, and only when something may have changed.
	if merged {
		build, err := BuildIndex(cfg, paths)
		if err != nil {
			return nil, err
		}
		out.Indexed = build.Indexed
		out.Reports = build.Reports
	}

	for i := range out.Results {
		if out.Results[i].State != BundleMerged {
			continue
		}
		out.Results[i].State = BundleIndexed
		if err := archiveBundle(paths, out.Results[i].Bundle); err != nil {
			// The merge already landed; a stuck zip is reported, not fatal.
			out.Results[i].Error = err.Error()
		}
	}

	return out, nil
}

// importOne extracts and merges a single bundle.
func importOne(cfg *config.Config, paths config.Paths, bundle string) BundleResult {
	result := BundleResult{Bundle: filepath.Base(bundle), State: BundlePending}

	if err := ValidateBundlePath(bundle); err != nil {
		result.State = BundleFailed
		result.Error = err.Error()
		return result
	}

	tmpDir, err := os.MkdirTemp("", "newsctl-import-*")
	if err != nil {
		result.State = BundleFailed
		result.Error = fmt.Sprintf("cannot create staging directory: %v", err)
		return result
	}
	defer os.RemoveAll(tmpDir)

	if err := extractZip(bundle, tmpDir); err != nil {
		result.State = BundleFailed
		result.Error = err.Error()
		return result
	}
	result.State = BundleExtracted

	posts, assets, err := locateBundleContent(tmpDir)
	if err != nil {
		result.State = BundleFailed
		result.Error = err.Error()
		return result
	}
	if len(posts) == 0 {
		result.State = BundleFailed
		result.Error = "no recognizable unit in bundle"
		return result
	}

	// Assets first, so a freshly merged unit never references an image
	// that has not landed yet.
	for _, asset := range assets {
		destDir := filepath.Join(paths.UploadsDir, asset.Year, asset.Month)
		dest := filepath.Join(destDir, filepath.Base(asset.Path))
		if _, err := os.Stat(dest); err == nil {
			result.State = BundlePartiallyFailed
			result.Collisions = append(result.Collisions, dest)
			result.Error = errors.NewBundleCollision(result.Bundle, dest).Error()
			return result
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			result.State = BundlePartiallyFailed
			result.Error = fmt.Sprintf("cannot create uploads directory: %v", err)
			return result
		}
		if err := moveFile(asset.Path, dest); err != nil {
			result.State = BundlePartiallyFailed
			result.Error = err.Error()
			return result
		}
		result.Assets = append(result.Assets, filepath.Base(asset.Path))
	}

	if err := os.MkdirAll(paths.ContentDir, 0o755); err != nil {
		result.State = BundlePartiallyFailed
		result.Error = fmt.Sprintf("cannot create content directory: %v", err)
		return result
	}

	for _, src := range posts {
		name := filepath.Base(src)
		dest := filepath.Join(paths.ContentDir, name)
		if _, err := os.Stat(dest); err == nil {
			result.State = BundlePartiallyFailed
			result.Collisions = append(result.Collisions, dest)
			result.Error = errors.NewBundleCollision(result.Bundle, dest).Error()
			return result
		}

		raw, err := os.ReadFile(src)
		if err != nil {
			result.State = BundlePartiallyFailed
			result.Error = fmt.Sprintf("cannot read %s: %v", name, err)
			return result
		}

		text := RewriteAssetPaths(string(raw), cfg.AssetPrefix)
		text = ensureHeroLine(text)

		if err := writeFileAtomic(dest, []byte(text), 0o644); err != nil {
			result.State = BundlePartiallyFailed
			result.Error = fmt.Sprintf("cannot write %s: %v", name, err)
			return result
		}
		result.Posts = append(result.Posts, name)
	}

	result.State = BundleMerged
	return result
}

// bundleAsset is one asset staged for merge, with its dated destination.
type bundleAsset struct {
	Path  string
	Year  string
	Month string
}

var assetDirPattern = regexp.MustCompile(`(?:^|/)uploads/news/(\d{4})/(\d{2})/[^/]+$`)

// locateBundleContent walks the extracted tree and classifies files. Unit
// files are *.md under any content/news/ directory (or at the top level,
// which some authoring tools emit); assets are files under a dated
// uploads/news/YYYY/MM/ directory anywhere in the tree.
func locateBundleContent(root string) (posts []string, assets []bundleAsset, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasSuffix(rel, ".md") {
			if strings.Contains(rel, "content/news/") || !strings.Contains(rel, "/") {
				posts = append(posts, path)
			}
			return nil
		}
		if m := assetDirPattern.FindStringSubmatch(rel); m != nil {
			assets = append(assets, bundleAsset{Path: path, Year: m[1], Month: m[2]})
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.NewInternal(fmt.Errorf("cannot scan extracted bundle: %w", err))
	}
	sort.Strings(posts)
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return posts, assets, nil
}

var assetRefPattern = regexp.MustCompile(`(["(]|: )(?:\.\./|\./)*(?:static/)?uploads/news/(\d{4}/\d{2}/[^")\s]+)`)

// RewriteAssetPaths normalizes asset references in a unit's text to the
// canonical absolute web prefix. Authoring tools emit a mix of relative
// forms ("../static/uploads/news/...", "uploads/news/...") that would break
// once the file lives in the content directory.
func RewriteAssetPaths(text, assetPrefix string) string {
	return assetRefPattern.ReplaceAllString(text, "${1}"+assetPrefix+"/$2")
}

var (
	imageLine = regexp.MustCompile(`(?m)^image:[ \t]*(.+)$`)
	heroLine  = regexp.MustCompile(`(?m)^hero:[ \t]*\S`)
)

// ensureHeroLine mirrors the image field into hero inside the header block
// when hero is absent, matching what the site templates read.
func ensureHeroLine(text string) string {
	rest, found := strings.CutPrefix(text, "---\n")
	if !found {
		return text
	}
	header, body, ok := strings.Cut(rest, "\n---")
	if !ok {
		return text
	}
	if heroLine.MatchString(header) {
		return text
	}
	if !imageLine.MatchString(header) {
		return text
	}
	header = imageLine.ReplaceAllString(header, "image: ${1}\nhero: ${1}")
	return "---\n" + header + "\n---" + body
}

// archiveBundle moves a fully imported zip into incoming/processed.
func archiveBundle(paths config.Paths, bundleName string) error {
	if err := os.MkdirAll(paths.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("cannot create processed directory: %w", err)
	}
	src := filepath.Join(paths.IncomingDir, bundleName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		// Bundle was given by explicit path outside incoming; leave it.
		return nil
	}
	dest := filepath.Join(paths.ProcessedDir, bundleName)
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(paths.ProcessedDir,
			fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), bundleName))
	}
	return moveFile(src, dest)
}

// extractZip extracts an archive into destDir, rejecting entries that
// would escape it.
func extractZip(bundle, destDir string) error {
	r, err := zip.OpenReader(bundle)
	if err != nil {
		return errors.NewBadBundle(filepath.Base(bundle), fmt.Sprintf("cannot open archive: %v", err))
	}
	defer r.Close()

	for _, f := range r.File {
		name := filepath.ToSlash(f.Name)
		if name == "" || strings.HasPrefix(name, "/") || containsTraversal(name) {
			return errors.NewBadBundle(filepath.Base(bundle), fmt.Sprintf("unsafe entry path %q", f.Name))
		}

		target := filepath.Join(destDir, filepath.FromSlash(name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.NewInternal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.NewInternal(err)
		}

		rc, err := f.Open()
		if err != nil {
			return errors.NewBadBundle(filepath.Base(bundle), fmt.Sprintf("cannot read entry %q: %v", f.Name, err))
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			rc.Close()
			return errors.NewInternal(err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		if closeErr := out.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			return errors.NewInternal(copyErr)
		}
	}
	return nil
}

// moveFile renames src to dest, falling back to copy+remove across devices.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return fmt.Errorf("cannot move %s: %w", src, err)
	}
	return os.Remove(src)
}

// newRunID generates a ULID identifying one import run in diagnostics.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
