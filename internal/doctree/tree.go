package doctree

import (
	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/notebook"
)

// Options control discovery and index synthesis.
type Options struct {
	// Extension of document files, including the dot.
	Extension string
	// IndexFilename is the stem of synthesized index documents.
	IndexFilename string
	// Indexing enables the "<index> - <name>" naming convention.
	Indexing bool
	// DocumentKind is assigned to documents found by convention.
	DocumentKind Kind
	// IgnoreNames are document names skipped during discovery (case-insensitive).
	IgnoreNames []string
	// SummaryHeaderLevel is the minimum header level of a folder summary quoted in its index.
	SummaryHeaderLevel int
	// ChildSummaryHeaderLevel is the minimum header level of a document summary quoted in its folder index.
	ChildSummaryHeaderLevel int
	// Registry resolves manifest document classes.
	Registry *Registry
	// ReadCells loads a document's cells.
	ReadCells func(path string) ([]cell.Cell, error)
}

// DefaultOptions returns the options used when nothing is configured.
// Callers adjust a copy; the zero Options disables indexing.
func DefaultOptions() Options {
	return Options{
		Extension:               notebook.Extension,
		IndexFilename:           "index",
		Indexing:                true,
		DocumentKind:            KindNotebook,
		IgnoreNames:             []string{"Summary"},
		SummaryHeaderLevel:      2,
		ChildSummaryHeaderLevel: 3,
		Registry:                DefaultRegistry(),
		ReadCells:               notebook.ReadCells,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Extension == "" {
		o.Extension = d.Extension
	}
	if o.IndexFilename == "" {
		o.IndexFilename = d.IndexFilename
	}
	if o.DocumentKind == "" {
		o.DocumentKind = d.DocumentKind
	}
	if o.IgnoreNames == nil {
		o.IgnoreNames = d.IgnoreNames
	}
	if o.SummaryHeaderLevel <= 0 {
		o.SummaryHeaderLevel = d.SummaryHeaderLevel
	}
	if o.ChildSummaryHeaderLevel <= 0 {
		o.ChildSummaryHeaderLevel = d.ChildSummaryHeaderLevel
	}
	if o.Registry == nil {
		o.Registry = d.Registry
	}
	if o.ReadCells == nil {
		o.ReadCells = d.ReadCells
	}
	return o
}

// Section is a top-level navigation entry in manifest order.
type Section struct {
	Name string
	Node Node
}

// Tree is the root context of one build. It owns the options, the section
// list and the root folder; nothing about a build lives in package state.
type Tree struct {
	BaseDir string
	Options Options
	Root    *Folder

	sections []Section
}

// Sections returns the configured top-level sections in manifest order.
// Trees built by convention have none.
func (t *Tree) Sections() []Section {
	out := make([]Section, len(t.sections))
	copy(out, t.sections)
	return out
}

// Compile synthesizes every folder index.
func (t *Tree) Compile() error {
	_, err := t.Root.CompileIndex()
	return err
}

// Pages lists every document and compiled index in the tree: per folder its
// documents, then its index, then its sub-folders.
func (t *Tree) Pages() []Page {
	var pages []Page
	var visit func(f *Folder)
	visit = func(f *Folder) {
		for _, d := range f.Documents {
			pages = append(pages, d)
		}
		if f.IndexDocument != nil {
			pages = append(pages, f.IndexDocument)
		}
		for _, sub := range f.Folders {
			visit(sub)
		}
	}
	visit(t.Root)
	return pages
}
