package rewrite

import (
	"net/url"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
)

// RenderedExtension replaces the document extension in rendered links.
const RenderedExtension = ".html"

var (
	anchorLinkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(#([^)]+)\)`)
	documentLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)#]+?)\.ipynb(#[^)]*)?\)`)
)

// Reroute returns a copy of cells where same-document anchor links point at
// baseLink and links to other notebooks point at their rendered pages.
//
// Only links whose target starts with "#" are prefixed, so rerouting an
// already rerouted sequence with the same base changes nothing.
func Reroute(cells []cell.Cell, baseLink string) []cell.Cell {
	base := Href(baseLink)
	out := make([]cell.Cell, 0, len(cells))
	for _, c := range cells {
		c = c.Clone()
		if c.IsMarkdown() {
			c.Source = anchorLinkPattern.ReplaceAllStringFunc(c.Source, func(m string) string {
				sub := anchorLinkPattern.FindStringSubmatch(m)
				return "[" + sub[1] + "](" + base + "#" + sub[2] + ")"
			})
			c.Source = documentLinkPattern.ReplaceAllString(c.Source, "[$1]($2"+RenderedExtension+"$3)")
		}
		out = append(out, c)
	}
	return out
}

// Href escapes a slash-separated relative path for use as a link target.
func Href(p string) string {
	if p == "" {
		return ""
	}
	return (&url.URL{Path: p}).EscapedPath()
}

// SwapExtension replaces the extension of a slash path with RenderedExtension.
func SwapExtension(p, ext string) string {
	if ext != "" && strings.HasSuffix(p, ext) {
		return strings.TrimSuffix(p, ext) + RenderedExtension
	}
	return p
}
