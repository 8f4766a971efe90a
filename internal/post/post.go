package post

// Post represents one content unit: a parsed frontmatter header plus the
// markdown body that follows it.
type Post struct {
	// Meta is the parsed frontmatter header.
	Meta Frontmatter

	// Body is everything after the closing frontmatter marker.
	Body string

	// Filename is the basename of the source file (e.g. "2024-01-15-post.md").
	Filename string
}

// Slug returns the explicit slug, or one derived from the title.
func (p *Post) Slug() string {
	if p.Meta.Slug != "" {
		return p.Meta.Slug
	}
	return Slugify(p.Meta.Title)
}

// ID returns the canonical identifier: date plus slug. Empty when no slug
// can be derived, which callers treat as a validation failure.
func (p *Post) ID() string {
	slug := p.Slug()
	if slug == "" {
		return ""
	}
	return p.Meta.Date + "-" + slug
}

// HeroPath returns the hero image path, preferring the image field and
// falling back to hero (both appear in authored content).
func (p *Post) HeroPath() string {
	if p.Meta.Image != "" {
		return p.Meta.Image
	}
	return p.Meta.Hero
}
