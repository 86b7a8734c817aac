package commands

import (
	"fmt"

	"git.home.luguber.info/inful/labsite/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Config string `arg:"" optional:"" default:"config.yml" help:"Configuration file to write"`
	Force  bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", i.Config)
	if err := config.Init(i.Config, i.Force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
