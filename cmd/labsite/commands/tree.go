package commands

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"

	"git.home.luguber.info/inful/labsite/internal/doctree"
	"git.home.luguber.info/inful/labsite/internal/site"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Config string `arg:"" optional:"" default:"config.yml" help:"Configuration file path"`
}

func (c *TreeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(c.Config, root.Verbose)
	if err != nil {
		return err
	}
	tree, err := site.LoadTree(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.stdout(), RenderTree(tree))
	return err
}

// RenderTree draws the folders and documents of tree in navigation order.
// Documents are tagged with their kind; folders with a summary say so.
func RenderTree(tree *doctree.Tree) string {
	out := gotree.New(tree.Root.DisplayName())
	addFolder(out, tree.Root)
	return out.Print()
}

func addFolder(node gotree.Tree, f *doctree.Folder) {
	if f.Summary != nil {
		node.Add(fmt.Sprintf("(summary %s)", f.Summary.DisplayName()))
	}
	for _, child := range f.Children() {
		switch n := child.(type) {
		case *doctree.Folder:
			addFolder(node.Add(n.DisplayName()+"/"), n)
		case *doctree.Document:
			node.Add(fmt.Sprintf("%s [%s]", n.DisplayName(), n.Kind))
		}
	}
}
