package commands

import (
	"fmt"

	"git.home.luguber.info/inful/labsite/internal/export"
	"git.home.luguber.info/inful/labsite/internal/overview"
)

// OverviewCmd implements the 'overview' command.
type OverviewCmd struct {
	Config string `arg:"" optional:"" default:"config.yml" help:"Configuration file path"`
}

func (o *OverviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(o.Config, root.Verbose)
	if err != nil {
		return err
	}
	opts, err := overview.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	res, err := overview.Compile(opts, export.NewHTMLExporter())
	if err != nil {
		return err
	}
	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Combined %d cells into %s\n", res.Cells, res.Notebook)
	_, _ = fmt.Fprintf(out, "Overview written to %s\n", res.HTML)
	return nil
}
