package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/labsite/internal/metrics"
	"git.home.luguber.info/inful/labsite/internal/preview"
	"git.home.luguber.info/inful/labsite/internal/site"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Config  string `arg:"" optional:"" default:"config.yml" help:"Configuration file path"`
	Addr    string `default:":8000" help:"Listen address"`
	NoBuild bool   `name:"no-build" help:"Serve the existing output without building first"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(s.Config, root.Verbose)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := g.stdout()
	recorder := metrics.NewPrometheusRecorder(nil)
	opts := []preview.Option{
		preview.WithSiteLibs(cfg.SiteLibsTarget()),
		preview.WithMetrics(recorder.HTTPHandler()),
	}
	if !s.NoBuild {
		report, err := RunBuild(ctx, cfg, out, site.WithRecorder(recorder))
		if err != nil {
			return err
		}
		opts = append(opts, preview.WithReport(report))
	}

	srv := preview.NewServer(s.Addr, cfg.HTMLTargetDir, opts...)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	_, _ = fmt.Fprintf(out, "Serving %s on %s (Ctrl+C to stop)\n", cfg.HTMLTargetDir, s.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
