package commands

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/glamour"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/doctree"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/site"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Page   string `arg:"" optional:"" default:"." help:"Document or folder path relative to base_dir; '.' is the root index"`
	Config string `arg:"" optional:"" default:"config.yml" help:"Configuration file path"`
	Style  string `default:"auto" help:"Terminal style (auto, dark, light, notty)"`
	Width  int    `default:"100" help:"Word wrap width"`
}

func (c *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(c.Config, root.Verbose)
	if err != nil {
		return err
	}
	tree, err := site.LoadTree(cfg)
	if err != nil {
		return err
	}
	if err := tree.Compile(); err != nil {
		return err
	}
	page, err := FindPage(tree, c.Page)
	if err != nil {
		return err
	}

	r, err := glamour.NewTermRenderer(c.styleOption(), glamour.WithWordWrap(c.Width))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid terminal style").
			WithContext("style", c.Style).
			Build()
	}
	rendered, err := r.Render(PageMarkdown(page.Cells()))
	if err != nil {
		return errors.WrapError(err, errors.CategoryExport, "failed to render page").
			WithContext("path", page.Path()).
			Build()
	}
	_, err = fmt.Fprint(g.stdout(), rendered)
	return err
}

func (c *ShowCmd) styleOption() glamour.TermRendererOption {
	if c.Style == "" || c.Style == "auto" {
		return glamour.WithAutoStyle()
	}
	return glamour.WithStandardStyle(c.Style)
}

// FindPage looks up a page by its source path, its rendered path or the path
// of a folder, which selects the folder's index.
func FindPage(tree *doctree.Tree, p string) (doctree.Page, error) {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if p == "." {
		if tree.Root.IndexDocument == nil {
			return nil, errors.InternalError("root index not compiled").WithCause(doctree.ErrIndexNotCompiled).Build()
		}
		return tree.Root.IndexDocument, nil
	}

	var found doctree.Page
	_ = tree.Root.Walk(func(n doctree.Node) error {
		if found != nil {
			return nil
		}
		switch v := n.(type) {
		case *doctree.Folder:
			if v.IndexDocument != nil && (v.Path() == p || stem(v.IndexDocument.Path()) == stem(p)) {
				found = v.IndexDocument
			}
		case *doctree.Document:
			if stem(v.Path()) == stem(p) {
				found = v
			}
		}
		return nil
	})
	if found == nil {
		return nil, errors.ValidationError("no page at path").WithContext("path", p).Build()
	}
	return found, nil
}

func stem(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// PageMarkdown flattens cells into one markdown document: markdown and raw
// cells as written, code cells as fenced blocks followed by their text output.
func PageMarkdown(cells []cell.Cell) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		switch c.Kind {
		case cell.KindCode:
			parts = append(parts, "```\n"+strings.TrimRight(c.Source, "\n")+"\n```")
			if text := streamText(c.Outputs); text != "" {
				parts = append(parts, "```\n"+text+"\n```")
			}
		default:
			parts = append(parts, c.Source)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func streamText(outputs []cell.Output) string {
	var b strings.Builder
	for _, o := range outputs {
		if o["output_type"] != "stream" {
			continue
		}
		switch t := o["text"].(type) {
		case string:
			b.WriteString(t)
		case []any:
			for _, line := range t {
				if s, ok := line.(string); ok {
					b.WriteString(s)
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
