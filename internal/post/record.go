package post

// IndexRecord is one entry of the persisted index document: a post summary
// without the body. Empty fields are omitted rather than emitted as nulls
// or empty strings, so consumers can rely on presence checks.
type IndexRecord struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title,omitempty"`
	Date               string   `json:"date,omitempty"`
	Author             string   `json:"author,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	Excerpt            string   `json:"excerpt,omitempty"`
	Description        string   `json:"description,omitempty"`
	Image              string   `json:"image,omitempty"`
	Hero               string   `json:"hero,omitempty"`
	ImageAlt           string   `json:"imageAlt,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Slug               string   `json:"slug,omitempty"`
	Filename           string   `json:"filename,omitempty"`
	Path               string   `json:"path,omitempty"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes,omitempty"`
	ReadingTimeLabel   string   `json:"readingTimeLabel,omitempty"`
}

// NewIndexRecord assembles the summary record for one post. contentWebPath
// is the absolute web path of the content directory (e.g. "/content/news");
// excerptMax bounds the derived excerpt.
//
// The record is built regardless of validation outcome: invalid posts still
// appear in the index so it always reflects everything on disk.
func NewIndexRecord(p *Post, contentWebPath string, excerptMax int) IndexRecord {
	excerpt := Excerpt(p.Meta, p.Body, excerptMax)
	minutes := ReadingTime(p.Body)

	imageAlt := p.Meta.ImageAlt
	if imageAlt == "" && p.HeroPath() != "" {
		imageAlt = p.Meta.Title
	}

	hero := p.Meta.Hero
	if hero == "" {
		// Mirror image into hero for site UI convenience.
		hero = p.Meta.Image
	}

	record := IndexRecord{
		ID:                 p.ID(),
		Title:              p.Meta.Title,
		Date:               p.Meta.Date,
		Author:             p.Meta.Author,
		Summary:            p.Meta.Summary,
		Excerpt:            excerpt,
		Description:        excerpt,
		Image:              p.Meta.Image,
		Hero:               hero,
		ImageAlt:           imageAlt,
		Tags:               p.Meta.Tags,
		Slug:               p.Slug(),
		Filename:           p.Filename,
		ReadingTimeMinutes: minutes,
		ReadingTimeLabel:   ReadingTimeLabel(minutes),
	}
	if p.Filename != "" {
		record.Path = contentWebPath + "/" + p.Filename
	}
	return record
}
