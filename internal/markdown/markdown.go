// Package markdown renders notebook markdown cells to HTML and extracts the
// links they contain.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Renderer converts markdown cell sources to HTML fragments.
//
// Raw HTML is passed through (index pages are built from it) and TeX math is
// shielded from markdown processing so MathJax sees it unchanged.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{md: newGoldmark()}
}

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Render converts one markdown source to an HTML fragment.
func (r *Renderer) Render(source string) (string, error) {
	protected, spans := protectMath(source)
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(protected), &buf); err != nil {
		return "", errors.WrapError(err, errors.CategoryExport, "failed to render markdown").Build()
	}
	return restoreMath(buf.String(), spans), nil
}
