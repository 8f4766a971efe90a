package post

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultExcerptChars is the default excerpt length bound (runes).
const DefaultExcerptChars = 180

// wordsPerMinute is the reading speed assumed for reading time estimates.
const wordsPerMinute = 200

var (
	imageMarkup    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkMarkup     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasisMarkup = regexp.MustCompile("[*_`~]+")
	headingMarkup  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	quoteMarkup    = regexp.MustCompile(`(?m)^>\s*`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// Excerpt derives a preview string for a post. Precedence: explicit excerpt
// field, then summary, then description, then the first paragraph of the
// body stripped to plain text. The result is bounded to maxChars runes;
// when truncation happens an ellipsis is appended.
func Excerpt(fm Frontmatter, body string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultExcerptChars
	}

	candidate := fm.Excerpt
	if candidate == "" {
		candidate = fm.Summary
	}
	if candidate == "" {
		candidate = fm.Description
	}
	if candidate == "" {
		candidate = StripMarkdown(firstParagraph(body))
	}

	candidate = strings.TrimSpace(spaceRuns.ReplaceAllString(candidate, " "))
	return truncateAtWord(candidate, maxChars)
}

// ReadingTime estimates reading minutes for a body: ceil(words/200), min 1.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ReadingTimeLabel formats a reading time for display.
func ReadingTimeLabel(minutes int) string {
	if minutes <= 1 {
		return "1 min read"
	}
	return fmt.Sprintf("%d min read", minutes)
}

// StripMarkdown reduces inline markdown to plain text: images and links
// keep their alt/label text, emphasis markers and heading/quote prefixes
// are removed.
func StripMarkdown(s string) string {
	s = imageMarkup.ReplaceAllString(s, "$1")
	s = linkMarkup.ReplaceAllString(s, "$1")
	s = headingMarkup.ReplaceAllString(s, "")
	s = quoteMarkup.ReplaceAllString(s, "")
	s = emphasisMarkup.ReplaceAllString(s, "")
	return s
}

// firstParagraph returns the first non-empty paragraph of a markdown body.
func firstParagraph(body string) string {
	for _, block := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			return strings.Join(strings.Fields(block), " ")
		}
	}
	return ""
}

// truncateAtWord bounds s to maxChars runes. The cut prefers the last space
// before the limit when that space falls past 60% of the limit (avoids
// chopping a short final word mid-way); otherwise it hard-cuts at the
// limit. An ellipsis is appended in either truncation case.
func truncateAtWord(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	cut := maxChars
	for i := maxChars - 1; i > (maxChars*60)/100; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}

	return strings.TrimRight(string(runes[:cut]), " ") + "…"
}
