package post

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiHyphen = regexp.MustCompile(`-{2,}`)

// Slugify converts free text into a URL-safe identifier matching
// [a-z0-9]+(-[a-z0-9]+)*.
//
// Pipeline: trim, NFD-decompose accented characters and drop the combining
// marks, lowercase, replace runs of anything outside [a-z0-9] with a single
// hyphen, trim leading/trailing hyphens. Deterministic and pure; empty
// input yields empty output, which callers must treat as a validation
// failure rather than an acceptable slug.
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, strings.TrimSpace(text))

	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
