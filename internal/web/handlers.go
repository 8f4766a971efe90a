package web

import (
	"net/http"
	"path/filepath"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/ops"
	"github.com/sonce/newsctl/internal/post"
	"github.com/sonce/newsctl/internal/render"
)

// Handlers contains HTTP route handlers for the preview UI.
type Handlers struct {
	cfg      *config.Config
	paths    config.Paths
	renderer *Renderer
	markdown *render.Renderer
}

// HandleList handles GET /news, the index listing.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.loadRecords()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "News",
			Version: h.renderer.version,
			Nav:     "news",
		},
		Records: records,
		Count:   len(records),
	})
}

// HandleDetail handles GET /news/{id}, one rendered post.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	records, err := h.loadRecords()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var record *post.IndexRecord
	for i := range records {
		if records[i].ID == id || records[i].Slug == id {
			record = &records[i]
			break
		}
	}
	if record == nil || record.Filename == "" {
		h.renderer.renderError(w, r, errors.NewNotFound(id))
		return
	}

	p, err := ops.ReadPost(filepath.Join(h.paths.ContentDir, record.Filename))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	report := post.Validate(p, post.DefaultRules(h.cfg.AssetPrefix))

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   record.Title,
			Version: h.renderer.version,
			Nav:     "news",
		},
		Record:       *record,
		RenderedHTML: h.markdown.Post(p),
		Warnings:     report.Warnings,
	})
}

// loadRecords reads the persisted index, building it first when the site
// has never been indexed.
func (h *Handlers) loadRecords() ([]post.IndexRecord, error) {
	records, err := ops.LoadIndex(h.paths.IndexFile)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	build, err := ops.BuildIndex(h.cfg, h.paths)
	if err != nil {
		return nil, err
	}
	return build.Records, nil
}
