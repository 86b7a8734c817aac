package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/version"
)

// Global is passed to every command's Run method.
type Global struct {
	// Out receives user-facing output; nil means stdout.
	Out io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Build the HTML site (default command)"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Tree     TreeCmd     `cmd:"" help:"Print the document tree"`
	Show     ShowCmd     `cmd:"" help:"Render one page in the terminal"`
	Serve    ServeCmd    `cmd:"" help:"Build the site and serve it locally"`
	Overview OverviewCmd `cmd:"" help:"Compile the measurement overview"`
}

// Options returns the kong options of the labsite command line.
func Options() []kong.Option {
	return []kong.Option{
		kong.Name("labsite"),
		kong.Description("Build a browsable HTML site from a folder of lab notebooks."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose, config.LogLevelInfo)
	return nil
}

func setupLogging(verbose bool, level config.LogLevel) {
	l := level.SlogLevel()
	if verbose {
		l = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// loadConfig loads the configuration and switches to its log level unless
// --verbose was given.
func loadConfig(path string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if !verbose {
		setupLogging(false, cfg.LogLevel)
	}
	return cfg, nil
}
