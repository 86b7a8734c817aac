package doctree

import (
	"path"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Folder is a directory of documents and sub-folders. Every folder owns
// exactly one index document once compiled.
type Folder struct {
	Name  string
	Index *int
	// Kind is assigned to the documents discovered in this folder.
	Kind Kind

	Folders   []*Folder
	Documents []*Document
	Summary   *Document

	IndexDocument *IndexDocument

	relativePath string
	absolutePath string
	parent       *Folder
	tree         *Tree
}

func (f *Folder) DisplayName() string { return displayName(f.Index, f.Name) }

func (f *Folder) Path() string { return f.relativePath }

func (f *Folder) AbsolutePath() string { return f.absolutePath }

func (f *Folder) Parent() *Folder { return f.parent }

// Ancestors returns the folders above this folder, root first.
func (f *Folder) Ancestors() ([]*Folder, error) {
	return ancestors(f.parent)
}

// Link links to the folder's index page.
func (f *Folder) Link(fromPath string, offset int) (string, error) {
	if f.IndexDocument == nil {
		return "", errors.LinkResolutionError("folder has no index").
			WithCause(ErrIndexNotCompiled).
			WithContext("path", f.relativePath).
			Build()
	}
	return f.IndexDocument.Link(fromPath, offset)
}

// Children lists sub-folders and documents. When every child carries an
// index they are ordered by it; otherwise folders precede documents, each in
// discovery order.
func (f *Folder) Children() []Node {
	children := make([]Node, 0, len(f.Folders)+len(f.Documents))
	allIndexed := true
	for _, sub := range f.Folders {
		children = append(children, sub)
		allIndexed = allIndexed && sub.Index != nil
	}
	for _, doc := range f.Documents {
		children = append(children, doc)
		allIndexed = allIndexed && doc.Index != nil
	}
	if allIndexed {
		slices.SortStableFunc(children, func(a, b Node) int {
			return *nodeIndex(a) - *nodeIndex(b)
		})
	}
	return children
}

func nodeIndex(n Node) *int {
	switch v := n.(type) {
	case *Folder:
		return v.Index
	case *Document:
		return v.Index
	case *IndexDocument:
		return v.Index
	}
	return nil
}

// CompileIndex compiles the index documents of all sub-folders and then this
// folder's own index. Compiling again returns the existing index.
func (f *Folder) CompileIndex() (*IndexDocument, error) {
	if f.IndexDocument == nil {
		rel := path.Join(f.relativePath, f.tree.Options.IndexFilename+f.tree.Options.Extension)
		f.IndexDocument = &IndexDocument{
			Document: Document{
				Name:         f.Name,
				Index:        f.Index,
				Kind:         KindIndex,
				relativePath: rel,
				absolutePath: filepath.Join(f.tree.BaseDir, filepath.FromSlash(rel)),
				parent:       f.parent,
			},
			folder: f,
		}
	}
	for _, sub := range f.Folders {
		if _, err := sub.CompileIndex(); err != nil {
			return nil, err
		}
	}
	if err := f.IndexDocument.Compile(); err != nil {
		return nil, err
	}
	return f.IndexDocument, nil
}

// Walk visits this folder and everything below it depth-first, documents
// before sub-folders.
func (f *Folder) Walk(visit func(Node) error) error {
	if err := visit(f); err != nil {
		return err
	}
	for _, doc := range f.Documents {
		if err := visit(doc); err != nil {
			return err
		}
	}
	for _, sub := range f.Folders {
		if err := sub.Walk(visit); err != nil {
			return err
		}
	}
	return nil
}
