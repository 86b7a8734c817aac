package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

// BrokenLink is a relative reference whose target is missing on disk.
type BrokenLink struct {
	Page   string `json:"page"`   // Rendered page, relative to the site root
	Target string `json:"target"` // Reference as written in the page
	Text   string `json:"text,omitempty"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Verifier checks the relative links of every rendered page below a site root.
type Verifier struct {
	root string
	tags map[string]struct{}
}

// NewVerifier returns a verifier for the site rooted at root. Only links on
// the named element tags are checked; without tags only anchors are.
func NewVerifier(root string, tags ...string) *Verifier {
	if len(tags) == 0 {
		tags = []string{"a"}
	}
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return &Verifier{root: root, tags: set}
}

// VerifySite walks the site root in lexical order and verifies every HTML page.
func (v *Verifier) VerifySite(ctx context.Context) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		found, pageErr := v.VerifyPage(path)
		if pageErr != nil {
			return pageErr
		}
		broken = append(broken, found...)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return broken, err
		}
		return broken, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk rendered site").
			WithContext("root", v.root).
			Build()
	}

	return broken, nil
}

// VerifyPage checks the links of a single rendered page.
func (v *Verifier) VerifyPage(pagePath string) ([]BrokenLink, error) {
	links, err := ExtractLinks(pagePath)
	if err != nil {
		return nil, err
	}

	page := v.relative(pagePath)
	var broken []BrokenLink
	checked := 0

	for _, link := range links {
		if _, ok := v.tags[link.Tag]; !ok || !ShouldVerifyLink(link) {
			continue
		}
		checked++

		target, ok := localTarget(pagePath, link.URL)
		if !ok {
			continue
		}
		if _, statErr := os.Stat(target); statErr != nil {
			reason := "target does not exist"
			if !os.IsNotExist(statErr) {
				reason = statErr.Error()
			}
			broken = append(broken, BrokenLink{
				Page:   page,
				Target: link.URL,
				Text:   link.Text,
				Line:   link.Line,
				Reason: reason,
			})
		}
	}

	slog.Debug("Verified page links",
		logfields.Path(page),
		logfields.Count(checked),
		slog.Int("broken", len(broken)))

	return broken, nil
}

func (v *Verifier) relative(path string) string {
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// localTarget maps a relative reference to a filesystem path next to the
// page. Query and fragment are dropped and percent escapes decoded.
func localTarget(pagePath, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "", false
	}
	return filepath.Join(filepath.Dir(pagePath), filepath.FromSlash(u.Path)), true
}
