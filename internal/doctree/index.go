package doctree

import (
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

// IndexDocument is the synthesized landing page of a folder.
type IndexDocument struct {
	Document
	folder   *Folder
	compiled bool
}

// Folder returns the folder this index describes.
func (ix *IndexDocument) Folder() *Folder { return ix.folder }

// Compiled reports whether Compile has produced the index cells.
func (ix *IndexDocument) Compiled() bool { return ix.compiled }

// Compile synthesizes the index cells: the folder summary, then one block per
// child. Sub-folder indexes must already be compiled. Every call starts from
// empty, so compiling again picks up changes to the folder.
func (ix *IndexDocument) Compile() error {
	ix.cells = nil
	ix.compiled = false
	opts := ix.folder.tree.Options
	var cells []cell.Cell

	if summary := ix.folder.Summary; summary != nil {
		base, err := Resolve(summary.relativePath, ix.relativePath, 0)
		if err != nil {
			return err
		}
		quoted, err := quote(summary.cells, opts.SummaryHeaderLevel, base)
		if err != nil {
			return err
		}
		cells = append(cells, quoted...)
	}

	for _, child := range ix.folder.Children() {
		var (
			c   []cell.Cell
			err error
		)
		switch v := child.(type) {
		case *Folder:
			c, err = ix.folderEntry(v)
		case *Document:
			c, err = ix.documentEntry(v, opts.ChildSummaryHeaderLevel)
		}
		if err != nil {
			return err
		}
		cells = append(cells, c...)
	}

	ix.cells = cells
	ix.compiled = true
	return nil
}

func (ix *IndexDocument) folderEntry(sub *Folder) ([]cell.Cell, error) {
	link, err := sub.Link(ix.relativePath, 0)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", anchor(link, sub.DisplayName()))
	for _, grandchild := range sub.Children() {
		glink, err := grandchild.Link(ix.relativePath, 0)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "%s<br>\n", anchor(glink, grandchild.DisplayName()))
	}
	return []cell.Cell{cell.NewMarkdown(b.String())}, nil
}

func (ix *IndexDocument) documentEntry(doc *Document, headerLevel int) ([]cell.Cell, error) {
	link, err := doc.Link(ix.relativePath, 0)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("## %s\n", anchor(link, doc.DisplayName()))
	if len(doc.summary) == 0 {
		return []cell.Cell{cell.NewMarkdown(header)}, nil
	}

	quoted, err := quote(doc.summary, headerLevel, link)
	if err != nil {
		return nil, err
	}
	first := quoted[0]
	if first.IsMarkdown() {
		return []cell.Cell{cell.NewMarkdown(header + first.Source)}, nil
	}
	return []cell.Cell{cell.NewMarkdown(header), first}, nil
}

// quote rescales headers to start at minLevel and points local anchors at base.
func quote(cells []cell.Cell, minLevel int, base string) ([]cell.Cell, error) {
	scaled, err := rewrite.Rescale(cells, rewrite.RescaleOptions{MinLevel: minLevel, ScaleToMin: true})
	if err != nil {
		return nil, err
	}
	return rewrite.Reroute(scaled, base), nil
}

func anchor(link, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, rewrite.Href(link), html.EscapeString(text))
}
