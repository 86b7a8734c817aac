// Package overview combines selected measurement notebooks into a single
// overview notebook and renders it as one printable HTML page.
package overview

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/export"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/notebook"
	"git.home.luguber.info/inful/labsite/internal/preprocess"
)

// Markers are matched against the complete source of a markdown cell.
const (
	TemplateMarker  = "# Template"
	RemainingMarker = "# Remaining measurements"
)

// Options describe one overview.
type Options struct {
	Name      string
	Folder    string
	Header    string
	Notebooks []string
	// Start and End select cells of each measurement notebook; End 0 keeps the rest.
	Start   int
	End     int
	Compact bool
	TempDir string
	Output  string
	// HTMLRoot and SiteLibs are used to link the page to the site assets.
	HTMLRoot   string
	SiteLibs   string
	Preprocess preprocess.Options
}

// OptionsFromConfig reads the measurement_overview block of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	o := cfg.MeasurementOverview
	if o == nil {
		return Options{}, errors.ConfigurationError("measurement_overview is not configured").
			WithContext("path", cfg.Path()).
			Build()
	}
	return Options{
		Name:      cfg.Name,
		Folder:    o.Folder,
		Header:    o.Header,
		Notebooks: o.Notebooks,
		Start:     o.Start,
		End:       o.End,
		Compact:   o.Compact,
		TempDir:   o.TempDir,
		Output:    o.Output,
		HTMLRoot:  cfg.HTMLTargetDir,
		SiteLibs:  cfg.SiteLibsTarget(),
		Preprocess: preprocess.Options{
			InitializationMarker: cfg.Preprocess.InitializationMarker,
			WrapWidth:            cfg.Preprocess.WrapWidth,
		},
	}, nil
}

// Compiler accumulates the cells of the overview notebook.
type Compiler struct {
	opts  Options
	read  func(path string) ([]cell.Cell, error)
	cells []cell.Cell
}

func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts, read: notebook.ReadCells}
}

// Cells returns a copy of the combined cells.
func (c *Compiler) Cells() []cell.Cell { return cell.CloneAll(c.cells) }

// AddHeader appends every cell of the header notebook.
func (c *Compiler) AddHeader(filename string) error {
	cells, err := c.read(filepath.Join(c.opts.Folder, filename))
	if err != nil {
		return err
	}
	slog.Info("Parsed header notebook", logfields.File(filename), logfields.Count(len(cells)))
	c.cells = append(c.cells, cells...)
	return nil
}

// AddMeasurement appends the selected cells of a measurement notebook.
func (c *Compiler) AddMeasurement(filename string) error {
	cells, err := c.read(filepath.Join(c.opts.Folder, filename))
	if err != nil {
		return err
	}
	selected := SelectMeasurementCells(cells, c.opts.Start, c.opts.End, c.opts.Compact)
	slog.Info("Parsed measurement notebook", logfields.File(filename), logfields.Count(len(selected)))
	c.cells = append(c.cells, selected...)
	return nil
}

// SelectMeasurementCells drops the optional trailing template, keeps the
// cells in [start, end) and, when compact, everything from the remaining
// measurements section onward.
func SelectMeasurementCells(cells []cell.Cell, start, end int, compact bool) []cell.Cell {
	cells = cutAt(cells, TemplateMarker)

	if end <= 0 || end > len(cells) {
		end = len(cells)
	}
	if start >= end {
		return nil
	}
	cells = cells[start:end]

	if compact {
		cells = cutAt(cells, RemainingMarker)
	}
	return cell.CloneAll(cells)
}

func cutAt(cells []cell.Cell, marker string) []cell.Cell {
	for k, c := range cells {
		if c.IsMarkdown() && c.Source == marker {
			return cells[:k]
		}
	}
	return cells
}

// NotebookPath is where the combined notebook is written.
func (c *Compiler) NotebookPath() string {
	return filepath.Join(c.opts.TempDir, fmt.Sprintf("measurement_overview_%s%s", c.opts.Name, notebook.Extension))
}

// WriteNotebook stores the combined cells as a notebook.
func (c *Compiler) WriteNotebook() (string, error) {
	path := c.NotebookPath()
	if err := notebook.Write(path, notebook.New(c.cells...)); err != nil {
		return "", err
	}
	slog.Info("Combined notebook written", logfields.Path(path))
	return path, nil
}

// RenderHTML renders the combined cells without code inputs.
func (c *Compiler) RenderHTML(exporter export.Exporter) (string, error) {
	cells := preprocess.Overview(c.opts.Preprocess).Apply(c.cells)

	outDir := filepath.Dir(c.opts.Output)
	ctx := export.TemplateContext{
		Name:         "Measurement overview " + c.opts.Name,
		RootPath:     relativeDir(outDir, c.opts.HTMLRoot),
		SiteLibsPath: strings.TrimSuffix(relativeDir(outDir, c.opts.SiteLibs), "/"),
		HideInput:    true,
	}

	out, err := exporter.Render(cells, ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", errors.FileSystemError("failed to create output directory").WithCause(err).WithContext("path", outDir).Build()
	}
	if err := os.WriteFile(c.opts.Output, out, 0o600); err != nil {
		return "", errors.FileSystemError("failed to write overview").WithCause(err).WithContext("path", c.opts.Output).Build()
	}
	slog.Info("Overview rendered", logfields.Output(c.opts.Output), logfields.Count(len(cells)))
	return c.opts.Output, nil
}

// relativeDir returns the slash path from dir to target ending in "/", or
// "" when they are the same.
func relativeDir(dir, target string) string {
	if target == "" {
		return ""
	}
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel) + "/"
}

// Result names the files an overview build produced.
type Result struct {
	Notebook string
	HTML     string
	Cells    int
}

// Compile reads the header and measurement notebooks and writes both the
// combined notebook and its HTML rendering.
func Compile(opts Options, exporter export.Exporter) (*Result, error) {
	c := NewCompiler(opts)
	if err := c.AddHeader(opts.Header); err != nil {
		return nil, err
	}
	for _, nb := range opts.Notebooks {
		if err := c.AddMeasurement(nb); err != nil {
			return nil, err
		}
	}

	nbPath, err := c.WriteNotebook()
	if err != nil {
		return nil, err
	}
	htmlPath, err := c.RenderHTML(exporter)
	if err != nil {
		return nil, err
	}
	return &Result{Notebook: nbPath, HTML: htmlPath, Cells: len(c.cells)}, nil
}
