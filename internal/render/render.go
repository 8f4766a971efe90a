// Package render converts unit bodies from markdown to HTML for the
// preview server and any other consumer of rendered output.
package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sonce/newsctl/internal/post"
)

// Renderer converts markdown bodies to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer. Tables and strikethrough are enabled because the
// authoring tools emit them; raw HTML in bodies is not passed through.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// HTML renders markdown to HTML. On a conversion failure the text is
// returned escaped rather than dropped, matching the tolerant handling
// elsewhere in the pipeline.
func (r *Renderer) HTML(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(markdown) + "</pre>")
	}
	return template.HTML(buf.String())
}

// Post renders a unit's body.
func (r *Renderer) Post(p *post.Post) template.HTML {
	return r.HTML(p.Body)
}
