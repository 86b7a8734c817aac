// Package export renders cell sequences into standalone HTML pages.
package export

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/markdown"
)

// TemplateFilename is looked up in the configured template directory.
const TemplateFilename = "notebook.html"

//go:embed templates/notebook.html
var embeddedTemplates embed.FS

// NavItem is a named relative link.
type NavItem struct {
	Name string
	Link string
}

// TemplateContext is the per-page data handed to the page template.
type TemplateContext struct {
	// NavbarSections link every top-level section, in manifest order.
	NavbarSections []NavItem
	// Parents link the index of every enclosing folder, root first.
	Parents []NavItem
	Name    string
	// RootPath leads from the page back to the HTML root ("" at the root).
	RootPath     string
	SiteLibsPath string
	// TemplatePath is a page template file; empty selects the built-in one.
	TemplatePath string
	Params       map[string]any
	LatexMacros  string
	// HideInput omits the source of code cells and keeps their outputs.
	HideInput bool
}

// Exporter turns cells into a rendered page.
type Exporter interface {
	Render(cells []cell.Cell, ctx TemplateContext) ([]byte, error)
}

// HTMLExporter renders markdown with goldmark and wraps the page in an
// html/template layout. Parsed templates are cached per path.
type HTMLExporter struct {
	md *markdown.Renderer

	mu        sync.Mutex
	templates map[string]*template.Template
}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{md: markdown.NewRenderer(), templates: make(map[string]*template.Template)}
}

type pageData struct {
	TemplateContext
	Cells []template.HTML
}

// Render produces a complete HTML page for cells.
func (e *HTMLExporter) Render(cells []cell.Cell, ctx TemplateContext) ([]byte, error) {
	tpl, err := e.template(ctx.TemplatePath)
	if err != nil {
		return nil, err
	}

	data := pageData{TemplateContext: ctx, Cells: make([]template.HTML, 0, len(cells))}
	for i, c := range cells {
		html, err := e.renderCell(c, ctx.HideInput)
		if err != nil {
			return nil, errors.ExportError("failed to render cell").
				WithCause(err).
				WithContext("cell", i).
				WithContext("page", ctx.Name).
				Build()
		}
		// #nosec G203 -- cell HTML is produced by the renderer from trusted notebooks
		data.Cells = append(data.Cells, template.HTML(html))
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, errors.ExportError("failed to execute page template").
			WithCause(err).
			WithContext("template", templateName(ctx.TemplatePath)).
			WithContext("page", ctx.Name).
			Build()
	}
	return buf.Bytes(), nil
}

func (e *HTMLExporter) template(path string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tpl, ok := e.templates[path]; ok {
		return tpl, nil
	}

	var (
		body []byte
		err  error
	)
	if path == "" {
		body, err = embeddedTemplates.ReadFile("templates/" + TemplateFilename)
	} else {
		// #nosec G304 -- template path comes from the site configuration
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.ExportError("failed to read page template").WithCause(err).WithContext("template", templateName(path)).Build()
	}
	tpl, err := template.New(TemplateFilename).Parse(string(body))
	if err != nil {
		return nil, errors.ExportError("failed to parse page template").WithCause(err).WithContext("template", templateName(path)).Build()
	}
	e.templates[path] = tpl
	return tpl, nil
}

func templateName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// TemplatePathIn returns the page template inside dir; an empty dir selects
// the built-in template.
func TemplatePathIn(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	p := filepath.Join(dir, TemplateFilename)
	if _, err := os.Stat(p); err != nil {
		return "", errors.ConfigurationError("page template not found").
			WithCause(err).
			WithContext("path", p).
			Build()
	}
	return p, nil
}
