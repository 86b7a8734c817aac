package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Config string `arg:"" optional:"" default:"config.yml" help:"Configuration file path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(b.Config, root.Verbose)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunBuild(ctx, cfg, g.stdout())
	return err
}

// RunBuild builds the site and prints the report summary. The report is
// returned whenever the pipeline ran, also on failure.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer, opts ...site.Option) (*site.Report, error) {
	_, _ = fmt.Fprintf(out, "Building %s\n", cfg.Name)
	report, err := site.NewBuilder(cfg, opts...).Build(ctx)
	if report != nil {
		_, _ = fmt.Fprintln(out, report.Summary())
	}
	if err != nil {
		return report, err
	}
	_, _ = fmt.Fprintf(out, "Site written to %s\n", cfg.HTMLTargetDir)
	return report, nil
}
