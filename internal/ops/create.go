package ops

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/post"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Title     string // required
	Date      string // default: today
	Slug      string // default: derived from title
	Author    string
	Summary   string
	Tags      []string
	Body      string
	Draft     bool
	ImagePath string
	ImageAlt  string
	Force     bool // overwrite an existing unit and hero image
	Bundle    bool // also produce an upload zip in the output dir
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Path       string      `json:"path"`
	Filename   string      `json:"filename"`
	Slug       string      `json:"slug"`
	ImageDest  string      `json:"image_dest,omitempty"`
	BundlePath string      `json:"bundle_path,omitempty"`
	Report     post.Report `json:"report"`
	Indexed    int         `json:"indexed"`
}

// Create writes one new unit file, optionally copying a hero image into the
// dated uploads tree, then rebuilds the index. An existing destination is a
// collision unless Force is set.
func Create(cfg *config.Config, paths config.Paths, input CreateInput) (*CreateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if !isoDate.MatchString(date) {
		return nil, errors.NewInvalidRequest("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.NewInvalidRequest("date must be YYYY-MM-DD")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = post.Slugify(title)
	}
	if slug == "" {
		return nil, errors.NewInvalidRequest("title does not produce a usable slug")
	}

	filename := fmt.Sprintf("%s-%s.md", date, slug)
	dest := filepath.Join(paths.ContentDir, filename)
	if _, err := os.Stat(dest); err == nil && !input.Force {
		return nil, errors.NewAlreadyExists(dest)
	}

	if err := os.MkdirAll(paths.ContentDir, 0o755); err != nil {
		return nil, errors.NewFatal("cannot create content directory", err)
	}

	var imageDest, imageWebPath string
	if input.ImagePath != "" {
		var err error
		imageDest, imageWebPath, err = copyHeroImage(cfg, paths, input.ImagePath, date, slug, input.Force)
		if err != nil {
			return nil, err
		}
	}

	imageAlt := strings.TrimSpace(input.ImageAlt)
	if imageAlt == "" && imageWebPath != "" {
		imageAlt = title
	}

	p := &post.Post{
		Meta: post.Frontmatter{
			Title:    title,
			Date:     date,
			Slug:     slug,
			Author:   strings.TrimSpace(input.Author),
			Summary:  strings.TrimSpace(input.Summary),
			Image:    imageWebPath,
			ImageAlt: imageAlt,
			Tags:     input.Tags,
			Draft:    input.Draft,
		},
		Body:     input.Body,
		Filename: filename,
	}

	path, err := WritePost(paths.ContentDir, p)
	if err != nil {
		return nil, err
	}

	build, err := BuildIndex(cfg, paths)
	if err != nil {
		return nil, err
	}

	out := &CreateOutput{
		Path:      path,
		Filename:  filename,
		Slug:      slug,
		ImageDest: imageDest,
		Report:    post.Validate(p, post.DefaultRules(cfg.AssetPrefix)),
		Indexed:   build.Indexed,
	}

	if input.Bundle {
		bundlePath, err := writeUploadBundle(cfg, paths, path, imageDest)
		if err != nil {
			return nil, err
		}
		out.BundlePath = bundlePath
	}

	return out, nil
}

// copyHeroImage places the source image into uploads/YYYY/MM under a
// deterministic name tied to the unit, and returns the filesystem
// destination plus the web path for the frontmatter.
func copyHeroImage(cfg *config.Config, paths config.Paths, src, date, slug string, force bool) (string, string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.NewNotFound(src)
		}
		return "", "", errors.NewInternal(err)
	}

	ext := strings.ToLower(filepath.Ext(src))
	if !cfg.ImageExtAllowed(ext) {
		return "", "", errors.NewInvalidRequest(
			fmt.Sprintf("image extension %q not allowed (allowed: %s)", ext, strings.Join(cfg.AllowedImageExts, ", ")))
	}
	if cfg.MaxImageSizeMB > 0 && info.Size() > int64(cfg.MaxImageSizeMB)<<20 {
		return "", "", errors.NewInvalidRequest(
			fmt.Sprintf("image is larger than %d MB", cfg.MaxImageSizeMB))
	}

	year, month := date[0:4], date[5:7]
	destDir := filepath.Join(paths.UploadsDir, year, month)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", "", errors.NewFatal("cannot create uploads directory", err)
	}

	name := fmt.Sprintf("%s-%s-hero%s", date, slug, ext)
	dest := filepath.Join(destDir, name)
	if _, err := os.Stat(dest); err == nil && !force {
		return "", "", errors.NewAlreadyExists(dest)
	}

	if err := copyFile(src, dest); err != nil {
		return "", "", errors.NewInternal(fmt.Errorf("failed to copy image: %w", err))
	}

	webPath := fmt.Sprintf("%s/%s/%s/%s", cfg.AssetPrefix, year, month, name)
	return dest, webPath, nil
}

// writeUploadBundle zips the freshly written unit plus its hero image with
// repo-relative archive names, so the zip can be dropped straight into
// another site's incoming directory.
func writeUploadBundle(cfg *config.Config, paths config.Paths, postPath, imagePath string) (string, error) {
	if err := os.MkdirAll(paths.OutputDir, 0o755); err != nil {
		return "", errors.NewFatal("cannot create output directory", err)
	}

	name := fmt.Sprintf("news-upload-%s.zip", time.Now().Format("20060102-150405"))
	bundlePath := filepath.Join(paths.OutputDir, name)

	f, err := openFileNoFollow(bundlePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to create bundle: %w", err))
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	arcname := filepath.ToSlash(filepath.Join(cfg.ContentDir, filepath.Base(postPath)))
	if err := addToZip(zw, postPath, arcname); err != nil {
		zw.Close()
		return "", err
	}

	if imagePath != "" {
		rel, err := filepath.Rel(paths.Root, imagePath)
		if err != nil {
			zw.Close()
			return "", errors.NewInternal(err)
		}
		if err := addToZip(zw, imagePath, filepath.ToSlash(rel)); err != nil {
			zw.Close()
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		return "", errors.NewInternal(err)
	}
	return bundlePath, nil
}

func addToZip(zw *zip.Writer, path, arcname string) error {
	src, err := os.Open(path)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer src.Close()

	w, err := zw.Create(arcname)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
