package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, "name: My lab\n"))
	require.NoError(t, err)

	assert.Equal(t, "My lab", cfg.Name)
	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, filepath.Join(dir, "doc"), cfg.TargetDir)
	assert.Equal(t, filepath.Join(dir, "doc", "html"), cfg.HTMLTargetDir)
	assert.Equal(t, filepath.Join(dir, "doc", "site-libs"), cfg.SiteLibsTarget())
	assert.True(t, cfg.IndexingEnabled())
	assert.True(t, cfg.VerifyLinksEnabled())
	assert.Equal(t, []string{"Summary"}, cfg.IgnoreNames)
	assert.Equal(t, "index", cfg.Index.Filename)
	assert.Equal(t, 2, cfg.Index.SummaryHeaderLevel)
	assert.Equal(t, 3, cfg.Index.ChildSummaryHeaderLevel)
	assert.Equal(t, "silq.initialize", cfg.Preprocess.InitializationMarker)
	assert.Equal(t, 90, cfg.Preprocess.WrapWidth)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.Sections)
	assert.Equal(t, filepath.Join(dir, "config.yml"), cfg.Path())
}

func TestLoad_NameDefaultsToBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Fridge log"), 0o750))
	cfg, err := Load(writeConfig(t, dir, "base_dir: Fridge log\n"))
	require.NoError(t, err)
	assert.Equal(t, "Fridge log", cfg.Name)
}

func TestLoad_SectionsKeepOrder(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, `
name: Lab
sections:
  Zeta: 9 - Zeta
  Alpha:
    path: 1 - Alpha
    notebook_class: LogNotebook
  Mid: 5 - Mid.ipynb
`))
	require.NoError(t, err)
	assert.Equal(t, Sections{
		{Name: "Zeta", Path: "9 - Zeta"},
		{Name: "Alpha", Path: "1 - Alpha", Class: "LogNotebook"},
		{Name: "Mid", Path: "5 - Mid.ipynb"},
	}, cfg.Sections)
}

func TestLoad_SectionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"list instead of mapping", "sections:\n  - a\n  - b\n"},
		{"unknown section key", "sections:\n  A:\n    path: a\n    colour: red\n"},
		{"missing path", "sections:\n  A:\n    notebook_class: LogNotebook\n"},
		{"number value", "sections:\n  A: 3\n"},
		{"duplicate name", "sections:\n  A: a\n  A: b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestLoad_TemplateParams(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, `
template:
  template_dir: templates
  author: Ada
  year: 2024
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "templates"), cfg.Template.TemplateDir)
	assert.Equal(t, map[string]any{"author": "Ada", "year": 2024}, cfg.Template.Params)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LAB_NAME", "From env")
	cfg, err := Load(writeConfig(t, dir, "name: ${LAB_NAME}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From env", cfg.Name)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LAB_TARGET=from-dotenv\nLAB_KEEP=from-dotenv\n"), 0o600))
	t.Setenv("LAB_KEEP", "from-process")
	t.Setenv("LAB_TARGET", "")
	require.NoError(t, os.Unsetenv("LAB_TARGET"))

	cfg, err := Load(writeConfig(t, dir, "target_dir: ${LAB_TARGET}\nname: ${LAB_KEEP}\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-dotenv"), cfg.TargetDir)
	assert.Equal(t, "from-process", cfg.Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "name: [\n"},
		{"summary level too deep", "index:\n  summary_header_level: 7\n"},
		{"index filename with slash", "index:\n  filename: a/b\n"},
		{"overview without header", "measurement_overview:\n  folder: m\n"},
		{"overview end before start", "measurement_overview:\n  folder: m\n  header: h.ipynb\n  start: 3\n  end: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestLoad_OverviewPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, `
measurement_overview:
  folder: measurements
  header: header.ipynb
  notebooks: [a.ipynb, b.ipynb]
  compact: true
`))
	require.NoError(t, err)
	o := cfg.MeasurementOverview
	require.NotNil(t, o)
	assert.Equal(t, filepath.Join(dir, "measurements"), o.Folder)
	assert.Equal(t, filepath.Join(dir, "doc", "tmp"), o.TempDir)
	assert.Equal(t, filepath.Join(dir, "doc", "measurement_overview.html"), o.Output)
	assert.Equal(t, []string{"a.ipynb", "b.ipynb"}, o.Notebooks)
	assert.True(t, o.Compact)
}

func TestLoad_TreeRelativePaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, `
base_dir: lab
latex_macros_file: macros.tex
metrics_file: out/metrics.prom
measurement_overview:
  folder: measurements
  header: header.ipynb
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lab", "macros.tex"), cfg.LatexMacrosFile)
	assert.Equal(t, filepath.Join(dir, "lab", "measurements"), cfg.MeasurementOverview.Folder)
	assert.Equal(t, filepath.Join(dir, "out", "metrics.prom"), cfg.MetricsFile)
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, Init(p, false))

	err := Init(p, false)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	require.NoError(t, Init(p, true))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, "Measurements", cfg.Sections[1].Name)
	assert.Equal(t, "LogNotebook", cfg.Sections[1].Class)
}
