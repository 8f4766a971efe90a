package post

import (
	"errors"
	"strings"
)

// Delimiter is the marker line that opens and closes the frontmatter block.
const Delimiter = "---"

// ErrMissingFrontmatter is returned when a file lacks an opening or closing
// frontmatter marker. Callers report it as a validation condition rather
// than aborting the batch.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// Frontmatter is the typed header of a post. It covers exactly the flat
// key/value subset the authoring tools emit: plain scalars, quoted scalars,
// and inline bracket lists. Nested structures are intentionally unsupported.
type Frontmatter struct {
	Title       string
	Date        string
	Slug        string
	Author      string
	Summary     string
	Description string
	Excerpt     string
	Image       string
	Hero        string
	ImageAlt    string
	Tags        []string
	Draft       bool
}

// ParseFrontmatter splits raw file text into a typed header and the body.
// The header must start at the first line with a marker and close with a
// second marker line; each header line splits on the first colon.
// Unknown keys are ignored.
func ParseFrontmatter(raw string) (Frontmatter, string, error) {
	var fm Frontmatter

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != Delimiter {
		return fm, "", ErrMissingFrontmatter
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return fm, "", ErrMissingFrontmatter
	}

	for _, line := range lines[1:closing] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "title":
			fm.Title = unquote(value)
		case "date":
			fm.Date = unquote(value)
		case "slug":
			fm.Slug = unquote(value)
		case "author":
			fm.Author = unquote(value)
		case "summary":
			fm.Summary = unquote(value)
		case "description":
			fm.Description = unquote(value)
		case "excerpt":
			fm.Excerpt = unquote(value)
		case "image":
			fm.Image = unquote(value)
		case "hero":
			fm.Hero = unquote(value)
		case "imageAlt":
			fm.ImageAlt = unquote(value)
		case "tags":
			fm.Tags = ParseTagList(value)
		case "draft":
			fm.Draft = strings.EqualFold(unquote(value), "true")
		}
	}

	body := strings.Join(lines[closing+1:], "\n")
	body = strings.TrimPrefix(body, "\n")
	return fm, body, nil
}

// FormatFrontmatter serializes a header back to its authored form.
// Optional fields with empty values are omitted entirely.
func FormatFrontmatter(fm Frontmatter) string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")

	writeField(&b, "title", fm.Title)
	// Dates never need quoting; keep the bare form the site expects.
	b.WriteString("date: " + fm.Date + "\n")
	writeField(&b, "slug", fm.Slug)
	writeField(&b, "author", fm.Author)
	writeField(&b, "summary", fm.Summary)
	writeField(&b, "description", fm.Description)
	writeField(&b, "excerpt", fm.Excerpt)
	writeField(&b, "image", fm.Image)
	writeField(&b, "hero", fm.Hero)
	writeField(&b, "imageAlt", fm.ImageAlt)

	if len(fm.Tags) > 0 {
		quoted := make([]string, len(fm.Tags))
		for i, tag := range fm.Tags {
			quoted[i] = quoteValue(tag)
		}
		b.WriteString("tags: [" + strings.Join(quoted, ", ") + "]\n")
	}
	if fm.Draft {
		b.WriteString("draft: true\n")
	}

	b.WriteString(Delimiter + "\n")
	return b.String()
}

// ParseTagList normalizes a tags value into a list. Both the bracketed
// inline form `[news, community]` and the comma string `"news, community"`
// yield the identical list.
func ParseTagList(value string) []string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = value[1 : len(value)-1]
	} else {
		value = unquote(value)
	}

	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := unquote(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// unquote strips one layer of surrounding single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			inner := s[1 : len(s)-1]
			return strings.ReplaceAll(inner, `\"`, `"`)
		}
	}
	return s
}

// quoteValue quotes a scalar when it contains whitespace or characters
// that would otherwise break the line-oriented parse. Free text ends up
// quoted, bare tokens stay bare, matching the authored form.
func quoteValue(s string) string {
	if s == "" || strings.ContainsAny(s, " :-#\"'\n") {
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return s
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key + ": " + quoteValue(value) + "\n")
}
