package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Link is a reference found in a rendered page.
type Link struct {
	URL       string // Raw attribute value
	Text      string // Anchor text or alt text
	Tag       string // Element name (a, img, script, link)
	Attribute string // Attribute holding the reference (href, src)
	Line      int    // Element ordinal, approximates the source line
}

// IsRelative reports whether the link points inside the site rather than
// at another host or scheme.
func (l *Link) IsRelative() bool {
	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && !strings.HasPrefix(l.URL, "/")
}

// linkAttrs maps element names to the attribute carrying their reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"script": "src",
	"link":   "href",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// ExtractLinks reads an HTML file and returns every reference it holds.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithContext("html_path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader parses HTML from r and returns every reference it holds.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []*Link
	var lineNum int

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			lineNum++
			if link := elementLink(n, lineNum); link != nil {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return links, nil
}

func elementLink(n *html.Node, lineNum int) *Link {
	attr, ok := linkAttrs[n.Data]
	if !ok {
		return nil
	}
	value := getAttr(n, attr)
	if value == "" {
		return nil
	}

	var text string
	switch n.Data {
	case "a":
		text = extractText(n)
	case "img":
		text = getAttr(n, "alt")
	case "link":
		text = getAttr(n, "rel")
	}

	return &Link{
		URL:       value,
		Text:      text,
		Tag:       n.Data,
		Attribute: attr,
		Line:      lineNum,
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText concatenates the trimmed text of n and its descendants.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

// ShouldVerifyLink reports whether a link names a local file that must exist.
// Anchors, special schemes and external URLs are skipped.
func ShouldVerifyLink(link *Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}

	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(link.URL, prefix) {
			return false
		}
	}

	return link.IsRelative()
}
