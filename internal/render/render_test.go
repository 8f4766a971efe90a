package render

import (
	"strings"
	"testing"

	"github.com/sonce/newsctl/internal/post"
)

func TestHTML_BasicMarkdown(t *testing.T) {
	r := New()

	got := string(r.HTML("# Heading\n\nA paragraph with **bold** text."))

	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading") {
		t.Errorf("missing heading: %s", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("missing bold span: %s", got)
	}
}

func TestHTML_Table(t *testing.T) {
	r := New()

	got := string(r.HTML("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if !strings.Contains(got, "<table>") {
		t.Errorf("table extension not active: %s", got)
	}
}

func TestHTML_RawHTMLNotPassedThrough(t *testing.T) {
	r := New()

	got := string(r.HTML(`before <script>alert(1)</script> after`))
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should not pass through: %s", got)
	}
}

func TestPost_RendersBodyOnly(t *testing.T) {
	r := New()

	p := &post.Post{
		Meta: post.Frontmatter{Title: "Ignored Title"},
		Body: "Body *paragraph*.",
	}
	got := string(r.Post(p))
	if strings.Contains(got, "Ignored Title") {
		t.Errorf("frontmatter should not leak into rendered output: %s", got)
	}
	if !strings.Contains(got, "<em>paragraph</em>") {
		t.Errorf("body not rendered: %s", got)
	}
}
