package post

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rules holds the schema bounds and path conventions the validator checks
// against. Callers inject a Rules value (usually derived from config) so
// separate content roots can carry separate conventions.
type Rules struct {
	// AssetPrefix is the absolute web prefix hero images must live under.
	AssetPrefix string

	MaxTitleChars   int
	MinTitleChars   int
	MaxSummaryChars int
	MinSummaryChars int
	MaxTags         int
	MinBodyChars    int
	MaxBodyChars    int

	// MaxFutureDays flags dates further ahead than this as implausible.
	MaxFutureDays int
	// MinDate flags dates before this as implausibly old.
	MinDate string

	// Now is injected for tests; zero means time.Now.
	Now time.Time
}

// DefaultRules returns the canonical rule set for the site layout.
func DefaultRules(assetPrefix string) Rules {
	return Rules{
		AssetPrefix:     assetPrefix,
		MaxTitleChars:   100,
		MinTitleChars:   5,
		MaxSummaryChars: 200,
		MinSummaryChars: 20,
		MaxTags:         8,
		MinBodyChars:    80,
		MaxBodyChars:    50000,
		MaxFutureDays:   365,
		MinDate:         "2000-01-01",
	}
}

// Report collects the outcome of validating one post. Errors block a
// zero-exit run; warnings are advisory only.
type Report struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Valid reports whether the post passed with no hard errors.
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

// HasProblems reports whether the report carries any diagnostics at all,
// warnings included.
func (r Report) HasProblems() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0
}

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dashedFilename  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)
	compactFilename = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)

	placeholderText = regexp.MustCompile(`(?i)\b(test|testing|lorem|asdf|placeholder|untitled|tbd|sample|xxx)\b`)
	emptyLinkTarget = regexp.MustCompile(`!?\[[^\]]*\]\(\s*\)`)
)

var placeholderAuthors = []string{"admin", "test", "author", "anonymous", "unknown", "asdf", "user"}

// Validate checks a parsed post against the schema and filename
// conventions. It is pure with respect to filesystem state: it only looks
// at the in-memory post and never mutates it.
func Validate(p *Post, rules Rules) Report {
	var report Report
	fail := func(format string, args ...any) {
		report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
	}
	warn := func(format string, args ...any) {
		report.Warnings = append(report.Warnings, fmt.Sprintf(format, args...))
	}

	validateTitle(p, rules, fail, warn)
	postDate := validateDate(p, rules, fail, warn)
	validateSlug(p, fail)
	validateHero(p, rules, fail, warn)
	validateTags(p, rules, fail, warn)
	validateAuthor(p, warn)
	validateSummary(p, rules, warn)
	validateFilename(p, postDate, fail, warn)
	validateBody(p, rules, warn)

	return report
}

func validateTitle(p *Post, rules Rules, fail, warn func(string, ...any)) {
	title := strings.TrimSpace(p.Meta.Title)
	if title == "" {
		fail("title is required")
		return
	}

	length := utf8.RuneCountInString(title)
	if length < rules.MinTitleChars {
		warn("title is very short (%d chars)", length)
	}
	if length > rules.MaxTitleChars {
		warn("title is longer than %d chars", rules.MaxTitleChars)
	}
	if placeholderText.MatchString(title) {
		warn("title looks like placeholder or test content")
	}
	if first, _ := utf8.DecodeRuneInString(title); unicode.IsLower(first) {
		warn("title starts with a lowercase letter")
	}
	if hasRepeatedRun(title, 4) {
		warn("title contains repeated character runs")
	}

	if p.Meta.Slug == "" && Slugify(title) == "" {
		fail("title does not produce a usable slug")
	}
}

// validateDate returns the parsed date when valid, zero otherwise.
func validateDate(p *Post, rules Rules, fail, warn func(string, ...any)) time.Time {
	if !datePattern.MatchString(p.Meta.Date) {
		fail("date must be YYYY-MM-DD")
		return time.Time{}
	}
	parsed, err := time.Parse("2006-01-02", p.Meta.Date)
	if err != nil {
		fail("date must be YYYY-MM-DD")
		return time.Time{}
	}

	now := rules.Now
	if now.IsZero() {
		now = time.Now()
	}
	if rules.MaxFutureDays > 0 && parsed.After(now.AddDate(0, 0, rules.MaxFutureDays)) {
		warn("date is more than %d days in the future", rules.MaxFutureDays)
	}
	if rules.MinDate != "" {
		if floor, err := time.Parse("2006-01-02", rules.MinDate); err == nil && parsed.Before(floor) {
			warn("date is implausibly old (before %s)", rules.MinDate)
		}
	}
	return parsed
}

func validateSlug(p *Post, fail func(string, ...any)) {
	if p.Meta.Slug != "" && !slugPattern.MatchString(p.Meta.Slug) {
		fail("slug must match [a-z0-9]+(-[a-z0-9]+)*")
	}
}

func validateHero(p *Post, rules Rules, fail, warn func(string, ...any)) {
	hero := p.HeroPath()
	if hero == "" {
		return
	}

	pattern := assetPathPattern(rules.AssetPrefix)
	match := pattern.FindStringSubmatch(hero)
	if match == nil {
		fail("image path must be like %s/YYYY/MM/filename.ext", rules.AssetPrefix)
		return
	}

	// Year/month folders must agree with the post date.
	if len(p.Meta.Date) >= 7 && datePattern.MatchString(p.Meta.Date) {
		if match[1] != p.Meta.Date[0:4] || match[2] != p.Meta.Date[5:7] {
			warn("image year/month (%s/%s) does not match post date %s", match[1], match[2], p.Meta.Date)
		}
	}
}

func validateTags(p *Post, rules Rules, fail, warn func(string, ...any)) {
	for _, tag := range p.Meta.Tags {
		if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, "[]{}") {
			fail("tags must be a list of plain strings")
			break
		}
	}
	if rules.MaxTags > 0 && len(p.Meta.Tags) > rules.MaxTags {
		warn("too many tags (%d, max %d)", len(p.Meta.Tags), rules.MaxTags)
	}
}

func validateAuthor(p *Post, warn func(string, ...any)) {
	author := strings.TrimSpace(p.Meta.Author)
	if author == "" {
		return
	}
	for _, placeholder := range placeholderAuthors {
		if strings.EqualFold(author, placeholder) {
			warn("author looks like a placeholder (%q)", author)
			return
		}
	}
}

func validateSummary(p *Post, rules Rules, warn func(string, ...any)) {
	summary := strings.TrimSpace(p.Meta.Summary)
	if summary == "" {
		summary = strings.TrimSpace(p.Meta.Description)
	}
	if summary == "" {
		return
	}

	length := utf8.RuneCountInString(summary)
	if length < rules.MinSummaryChars {
		warn("summary is very short (%d chars)", length)
	}
	if length > rules.MaxSummaryChars {
		warn("summary is longer than %d chars", rules.MaxSummaryChars)
	}
	lower := strings.ToLower(summary)
	if strings.Contains(lower, "lorem ipsum") || strings.Contains(lower, "summary here") ||
		strings.Contains(lower, "todo") || lower == "tbd" {
		warn("summary looks like boilerplate")
	}
}

func validateFilename(p *Post, postDate time.Time, fail, warn func(string, ...any)) {
	if p.Filename == "" {
		return
	}

	var filenameDate string
	if m := dashedFilename.FindStringSubmatch(p.Filename); m != nil {
		filenameDate = m[1]
	} else if m := compactFilename.FindStringSubmatch(p.Filename); m != nil {
		filenameDate = m[1] + "-" + m[2] + "-" + m[3]
	} else {
		fail("filename must be YYYY-MM-DD-slug.md or YYYYMMDD-slug.md")
		return
	}

	// Legacy content sometimes disagrees; tolerate with a warning. The post
	// is still indexed under its frontmatter date.
	if !postDate.IsZero() && filenameDate != p.Meta.Date {
		warn("filename date %s does not match frontmatter date %s", filenameDate, p.Meta.Date)
	}
}

func validateBody(p *Post, rules Rules, warn func(string, ...any)) {
	body := strings.TrimSpace(p.Body)
	if body == "" {
		warn("body is empty")
		return
	}

	length := utf8.RuneCountInString(body)
	if length < rules.MinBodyChars {
		warn("body is very short (%d chars)", length)
	}
	if rules.MaxBodyChars > 0 && length > rules.MaxBodyChars {
		warn("body is very long (%d chars)", length)
	}
	if emptyLinkTarget.MatchString(body) {
		warn("body contains markdown links or images with empty targets")
	}
}

// assetPathPattern builds the hero-image path pattern for a given prefix.
// Capture groups: year, month.
func assetPathPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `/(\d{4})/(\d{2})/[A-Za-z0-9._-]+$`)
}

// hasRepeatedRun reports whether s contains n or more identical consecutive
// runes. RE2 has no backreferences, so this is a plain scan.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev {
			count++
			if count >= n {
				return true
			}
		} else {
			prev = r
			count = 1
		}
	}
	return false
}
