// Package config loads the lab notebook site configuration.
package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.yml"

// Config represents the site configuration.
type Config struct {
	Name          string `yaml:"name"`
	BaseDir       string `yaml:"base_dir"`
	TargetDir     string `yaml:"target_dir"`
	HTMLTargetDir string `yaml:"html_target_dir,omitempty"`
	// SiteLibsDir is copied next to the HTML output as "site-libs".
	SiteLibsDir string `yaml:"site_libs_dir,omitempty"`

	// Sections is the ordered top-level manifest; empty means discovery by convention.
	Sections Sections `yaml:"sections,omitempty"`
	// Indexing enables "<index> - <name>" naming; nil means true.
	Indexing *bool `yaml:"indexing,omitempty"`
	// DocumentClass applies to documents found by convention.
	DocumentClass string `yaml:"document_class,omitempty"`
	IgnoreNames   []string `yaml:"ignore_names,omitempty"`

	Index      IndexConfig      `yaml:"index"`
	Template   TemplateConfig   `yaml:"template,omitempty"`
	Preprocess PreprocessConfig `yaml:"preprocess"`

	LatexMacrosFile string `yaml:"latex_macros_file,omitempty"`
	// VerifyLinks checks rendered pages for broken relative links; nil means true.
	VerifyLinks *bool    `yaml:"verify_links,omitempty"`
	MetricsFile string   `yaml:"metrics_file,omitempty"`
	LogLevel    LogLevel `yaml:"log_level,omitempty"`

	MeasurementOverview *OverviewConfig `yaml:"measurement_overview,omitempty"`

	path string
}

// IndexConfig controls synthesized folder indexes.
type IndexConfig struct {
	Filename string `yaml:"filename"`
	// SummaryHeaderLevel is the top header level of a folder summary quoted in its index.
	SummaryHeaderLevel int `yaml:"summary_header_level"`
	// ChildSummaryHeaderLevel is the top header level of a document summary quoted under its link.
	ChildSummaryHeaderLevel int `yaml:"child_summary_header_level"`
}

// PreprocessConfig tunes the cell filters applied before export.
type PreprocessConfig struct {
	InitializationMarker string `yaml:"initialization_marker"`
	WrapWidth            int    `yaml:"wrap_width"`
}

// OverviewConfig describes the combined measurement overview output.
type OverviewConfig struct {
	// Folder is relative to base_dir; Header and Notebooks are files inside it.
	Folder    string   `yaml:"folder"`
	Header    string   `yaml:"header"`
	Notebooks []string `yaml:"notebooks"`
	// Start and End slice the cells kept from every measurement notebook; End 0 means the end.
	Start   int    `yaml:"start,omitempty"`
	End     int    `yaml:"end,omitempty"`
	Compact bool   `yaml:"compact,omitempty"`
	TempDir string `yaml:"temp_dir,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// IndexingEnabled reports whether the naming convention applies.
func (c *Config) IndexingEnabled() bool { return c.Indexing == nil || *c.Indexing }

// VerifyLinksEnabled reports whether rendered links are checked.
func (c *Config) VerifyLinksEnabled() bool { return c.VerifyLinks == nil || *c.VerifyLinks }

// SiteLibsTarget is where site libraries are placed: next to the HTML root.
func (c *Config) SiteLibsTarget() string {
	return filepath.Join(filepath.Dir(filepath.Clean(c.HTMLTargetDir)), "site-libs")
}

// Load reads a configuration file, applies defaults, resolves relative paths
// against the file's directory and validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigurationError("configuration file not found").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.ConfigurationError("invalid configuration path").WithCause(err).WithContext("path", configPath).Build()
	}
	cfg.path = abs
	cfg.resolvePaths(filepath.Dir(abs))
	if cfg.Name == "" {
		cfg.Name = filepath.Base(cfg.BaseDir)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", logfields.File(abs), logfields.Count(len(cfg.Sections)))
	return cfg, nil
}

// Parse decodes YAML and applies defaults. Paths are left as written.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigurationError("failed to parse configuration").WithCause(err).Build()
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	resolve(&c.BaseDir)
	resolve(&c.TargetDir)
	resolve(&c.HTMLTargetDir)
	resolve(&c.SiteLibsDir)
	resolve(&c.Template.TemplateDir)
	resolve(&c.MetricsFile)
	// The macros file and the measurement folder live inside the notebook tree.
	inBase := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.BaseDir, *p)
		}
	}
	inBase(&c.LatexMacrosFile)
	if o := c.MeasurementOverview; o != nil {
		inBase(&o.Folder)
		resolve(&o.TempDir)
		resolve(&o.Output)
	}
}
