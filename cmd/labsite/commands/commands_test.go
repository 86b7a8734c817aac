package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/site"
	helpers "git.home.luguber.info/inful/labsite/internal/testutil/testutils"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, append(Options(), kong.Exit(func(code int) {
		t.Fatalf("unexpected exit with status %d", code)
	}))...)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, kctx
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli, kctx := parse(t, args...)
	var out bytes.Buffer
	err := kctx.Run(&Global{Out: &out}, cli)
	return out.String(), err
}

func labConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	helpers.LabTree(t, filepath.Join(dir, "lab"))
	return helpers.WriteFile(t, dir, "config.yml", "name: Lab\nbase_dir: lab\ntarget_dir: doc\n")
}

func TestParse_BuildIsDefault(t *testing.T) {
	cli, kctx := parse(t)
	assert.True(t, strings.HasPrefix(kctx.Command(), "build"))
	assert.Equal(t, "config.yml", cli.Build.Config)

	cli, kctx = parse(t, "lab.yml")
	assert.True(t, strings.HasPrefix(kctx.Command(), "build"))
	assert.Equal(t, "lab.yml", cli.Build.Config)
}

func TestBuildCommand(t *testing.T) {
	cfgPath := labConfig(t)

	out, err := run(t, "build", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Building Lab")
	assert.Contains(t, out, "outcome=success")

	html := filepath.Join(filepath.Dir(cfgPath), "doc", "html")
	helpers.NewFileAssertions(t, html).
		AssertFileExists("index.html").
		AssertFileExists("2 - Runs/1 - Cooldown.html").
		AssertFileExists(site.SearchIndexFilename)
}

func TestBuildCommand_MissingConfig(t *testing.T) {
	_, err := run(t, "build", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "init", path)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = run(t, "init", "--force", path)
	require.NoError(t, err)
}

func TestTreeCommand(t *testing.T) {
	out, err := run(t, "tree", labConfig(t))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Lab", lines[0])
	assert.Contains(t, out, "(summary 0 - Summary)")
	assert.Contains(t, out, "1 - Setup [notebook]")
	assert.Contains(t, out, "2 - Runs/")
	assert.Contains(t, out, "1 - Cooldown [notebook]")
	assert.Less(t, strings.Index(out, "1 - Setup"), strings.Index(out, "2 - Runs/"))
	assert.Less(t, strings.Index(out, "2 - Scan"), strings.Index(out, "3 - Notes"))
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "show", "2 - Runs/1 - Cooldown.ipynb", labConfig(t), "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Cooldown")
	assert.Contains(t, out, "Reached base temperature.")
}

func TestShowCommand_UnknownStyle(t *testing.T) {
	_, err := run(t, "show", ".", labConfig(t), "--style", "no-such-style")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestFindPage(t *testing.T) {
	cfgPath := labConfig(t)
	cfg, err := loadConfig(cfgPath, false)
	require.NoError(t, err)
	tree, err := site.LoadTree(cfg)
	require.NoError(t, err)
	require.NoError(t, tree.Compile())

	tests := []struct {
		query string
		want  string
	}{
		{".", "index.ipynb"},
		{"/", "index.ipynb"},
		{"index.html", "index.ipynb"},
		{"2 - Runs", "2 - Runs/index.ipynb"},
		{"2 - Runs/index.html", "2 - Runs/index.ipynb"},
		{"2 - Runs/1 - Cooldown.html", "2 - Runs/1 - Cooldown.ipynb"},
		{"1 - Setup.ipynb", "1 - Setup.ipynb"},
		{"3 - Notes", "3 - Notes.ipynb"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := FindPage(tree, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Path())
		})
	}

	_, err = FindPage(tree, "4 - Missing")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestPageMarkdown(t *testing.T) {
	md := PageMarkdown([]cell.Cell{
		cell.NewMarkdown("# A"),
		cell.NewCode("x = 1\n", cell.Output{"output_type": "stream", "name": "stdout", "text": []any{"1\n", "2\n"}}),
		cell.NewCode("y = 2"),
		cell.NewRaw("r"),
	})
	assert.Equal(t, "# A\n\n```\nx = 1\n```\n\n```\n1\n2\n```\n\n```\ny = 2\n```\n\nr\n", md)
}

func TestOverviewCommand_NotConfigured(t *testing.T) {
	_, err := run(t, "overview", labConfig(t))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestOverviewCommand(t *testing.T) {
	dir := t.TempDir()
	helpers.LabTree(t, filepath.Join(dir, "lab"))
	helpers.WriteNotebook(t, dir, "lab/measurements/header.ipynb", helpers.Markdown("# Overview")...)
	helpers.WriteNotebook(t, dir, "lab/measurements/run1.ipynb", helpers.Markdown("# Run 1", "value 1", "# Template", "unused")...)
	cfgPath := helpers.WriteFile(t, dir, "config.yml", `name: Lab
base_dir: lab
target_dir: doc
measurement_overview:
  folder: measurements
  header: header.ipynb
  notebooks: [run1.ipynb]
`)

	out, err := run(t, "overview", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Combined 3 cells")
	assert.Contains(t, out, "Overview written to")
}
