package doctree

import (
	"fmt"
	"slices"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Node is any element of the tree: a document, an index document or a folder.
type Node interface {
	// DisplayName is "<index> - <name>" for indexed nodes and the bare name otherwise.
	DisplayName() string
	// Path is the slash path relative to the tree root.
	Path() string
	// Parent is the containing folder, nil for the root.
	Parent() *Folder
	// Link returns the relative link from fromPath to this node's rendered page.
	Link(fromPath string, offset int) (string, error)
}

// Page is a node that renders to its own HTML page.
type Page interface {
	Node
	Cells() []cell.Cell
	DocumentKind() Kind
	// Ancestors lists the enclosing folders, root first.
	Ancestors() ([]*Folder, error)
}

func displayName(index *int, name string) string {
	if index == nil {
		return name
	}
	return fmt.Sprintf("%d - %s", *index, name)
}

// ancestors walks from parent towards the root and returns the chain root first.
// Every step must strictly reduce the path depth, so the walk terminates after
// at most depth(start)+1 steps.
func ancestors(parent *Folder) ([]*Folder, error) {
	var chain []*Folder
	prev := -1
	for f := parent; f != nil; f = f.parent {
		d := depth(f.relativePath)
		if prev >= 0 && d >= prev {
			return nil, errors.InternalError("invalid folder hierarchy").
				WithCause(ErrBrokenAncestry).
				WithContext("path", f.relativePath).
				Build()
		}
		prev = d
		chain = append(chain, f)
	}
	slices.Reverse(chain)
	return chain, nil
}
