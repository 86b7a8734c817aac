package doctree

import (
	"git.home.luguber.info/inful/labsite/internal/cell"
)

// Document is one notebook file in the tree.
type Document struct {
	Name  string
	Index *int
	Kind  Kind

	relativePath string
	absolutePath string
	parent       *Folder
	cells        []cell.Cell
	summary      []cell.Cell
}

func newDocument(name string, index *int, kind Kind, relativePath, absolutePath string, parent *Folder, cells []cell.Cell) *Document {
	d := &Document{
		Name:         name,
		Index:        index,
		Kind:         kind,
		relativePath: relativePath,
		absolutePath: absolutePath,
		parent:       parent,
		cells:        cells,
	}
	if kind.ExposesSummary() {
		d.summary = ExtractSummaryCells(cells)
	}
	return d
}

func (d *Document) DisplayName() string { return displayName(d.Index, d.Name) }

func (d *Document) Path() string { return d.relativePath }

// AbsolutePath is the notebook file on disk; empty for synthesized documents.
func (d *Document) AbsolutePath() string { return d.absolutePath }

func (d *Document) Parent() *Folder { return d.parent }

func (d *Document) DocumentKind() Kind { return d.Kind }

// Cells returns a copy of the document's cells.
func (d *Document) Cells() []cell.Cell { return cell.CloneAll(d.cells) }

// SummaryCells returns a copy of the quoted summary section; empty unless the
// kind exposes one.
func (d *Document) SummaryCells() []cell.Cell { return cell.CloneAll(d.summary) }

func (d *Document) Link(fromPath string, offset int) (string, error) {
	return Resolve(fromPath, d.relativePath, offset)
}

// Ancestors returns the folders above this document, root first.
func (d *Document) Ancestors() ([]*Folder, error) {
	return ancestors(d.parent)
}
