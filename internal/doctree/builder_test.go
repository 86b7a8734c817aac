package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/labsite/internal/testutil/testutils"
)

func childNames(f *Folder) []string {
	var names []string
	for _, c := range f.Children() {
		names = append(names, c.DisplayName())
	}
	return names
}

func TestBuild_Convention(t *testing.T) {
	root := t.TempDir()
	helpers.LabTree(t, root)

	tree, err := NewBuilder(DefaultOptions()).Build(root, "Lab")
	require.NoError(t, err)

	assert.Equal(t, "Lab", tree.Root.DisplayName())
	assert.Equal(t, []string{"1 - Setup", "2 - Runs", "3 - Notes"}, childNames(tree.Root))
	assert.Empty(t, tree.Sections())

	require.NotNil(t, tree.Root.Summary)
	assert.Equal(t, KindSummary, tree.Root.Summary.Kind)
	assert.Equal(t, "0 - Summary.ipynb", tree.Root.Summary.Path())

	require.Len(t, tree.Root.Folders, 1)
	runs := tree.Root.Folders[0]
	assert.Equal(t, "2 - Runs", runs.Path())
	assert.Same(t, tree.Root, runs.Parent())
	assert.Equal(t, []string{"1 - Cooldown", "2 - Scan"}, childNames(runs))
	require.NotNil(t, runs.Summary)

	scan := runs.Documents[1]
	assert.Equal(t, "2 - Runs/2 - Scan.ipynb", scan.Path())
	assert.Equal(t, KindNotebook, scan.Kind)
	cells := scan.Cells()
	require.Len(t, cells, 2)
	assert.True(t, cells[1].IsCode())
}

func TestBuild_IndexOrderIgnoresFileOrder(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"3 - C.ipynb", "10 - J.ipynb", "1 - A.ipynb", "2 - B.ipynb"} {
		helpers.WriteNotebook(t, root, name, cell.NewMarkdown("# x"))
	}

	tree, err := NewBuilder(DefaultOptions()).Build(root, "Lab")
	require.NoError(t, err)

	var indices []int
	for _, c := range tree.Root.Children() {
		indices = append(indices, *c.(*Document).Index)
	}
	assert.Equal(t, []int{1, 2, 3, 10}, indices)
}

func TestBuild_SkipRules(t *testing.T) {
	root := t.TempDir()
	helpers.WriteNotebook(t, root, "1 - Data/1 - Raw.ipynb", cell.NewMarkdown("# raw"))
	helpers.WriteNotebook(t, root, "1 - Data.ipynb", cell.NewMarkdown("# collides with folder"))
	helpers.WriteNotebook(t, root, "0 - Summary/1 - Hidden.ipynb", cell.NewMarkdown("# skipped folder"))
	helpers.WriteNotebook(t, root, "2 - Scratch.ipynb", cell.NewMarkdown("# ignored name"))
	helpers.WriteNotebook(t, root, "notes.ipynb", cell.NewMarkdown("# no index"))
	helpers.WriteNotebook(t, root, "3 - Kept.ipynb", cell.NewMarkdown("# kept"))
	helpers.WriteFile(t, root, "4 - Readme.md", "# not a notebook")

	opts := DefaultOptions()
	opts.IgnoreNames = []string{"Summary", "scratch"}
	tree, err := NewBuilder(opts).Build(root, "Lab")
	require.NoError(t, err)

	assert.Equal(t, []string{"1 - Data", "3 - Kept"}, childNames(tree.Root))
	assert.Nil(t, tree.Root.Summary)
}

func TestBuild_WithoutIndexing(t *testing.T) {
	root := t.TempDir()
	helpers.WriteNotebook(t, root, "beta.ipynb", cell.NewMarkdown("# b"))
	helpers.WriteNotebook(t, root, "alpha/one.ipynb", cell.NewMarkdown("# one"))
	helpers.WriteNotebook(t, root, ".hidden/two.ipynb", cell.NewMarkdown("# two"))
	helpers.WriteNotebook(t, root, ".draft.ipynb", cell.NewMarkdown("# draft"))

	opts := DefaultOptions()
	opts.Indexing = false
	tree, err := NewBuilder(opts).Build(root, "Lab")
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, childNames(tree.Root))
	assert.Nil(t, tree.Root.Folders[0].Index)
}

func TestBuild_SummaryIsFirstByName(t *testing.T) {
	root := t.TempDir()
	helpers.WriteNotebook(t, root, "Run summary.ipynb", cell.NewMarkdown("# run"))
	helpers.WriteNotebook(t, root, "0 - Summary.ipynb", cell.NewMarkdown("# zero"))

	tree, err := NewBuilder(DefaultOptions()).Build(root, "Lab")
	require.NoError(t, err)
	require.NotNil(t, tree.Root.Summary)
	assert.Equal(t, "0 - Summary.ipynb", tree.Root.Summary.Path())
}

func TestBuild_IndexedSummaryIsAlsoADocument(t *testing.T) {
	root := t.TempDir()
	helpers.WriteNotebook(t, root, "1 - Run.ipynb", cell.NewMarkdown("# run"))
	helpers.WriteNotebook(t, root, "3 - Weekly summary.ipynb", cell.NewMarkdown("# week"))

	tree, err := NewBuilder(DefaultOptions()).Build(root, "Lab")
	require.NoError(t, err)
	require.NotNil(t, tree.Root.Summary)
	assert.Equal(t, "3 - Weekly summary.ipynb", tree.Root.Summary.Path())
	assert.Equal(t, KindSummary, tree.Root.Summary.Kind)
	assert.Equal(t, []string{"1 - Run", "3 - Weekly summary"}, childNames(tree.Root))
	assert.Equal(t, KindNotebook, tree.Root.Documents[1].Kind)
}

func TestBuild_BaseDirMustExist(t *testing.T) {
	_, err := NewBuilder(DefaultOptions()).Build(t.TempDir()+"/missing", "Lab")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestBuildManifest(t *testing.T) {
	root := t.TempDir()
	helpers.LabTree(t, root)

	tree, err := NewBuilder(DefaultOptions()).BuildManifest(root, "Lab", []ManifestEntry{
		{Name: "Runs", Path: "2 - Runs", Class: "LogNotebook"},
		{Name: "Setup", Path: "1 - Setup.ipynb"},
	})
	require.NoError(t, err)

	sections := tree.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Runs", sections[0].Name)
	assert.Equal(t, "Setup", sections[1].Name)

	runs, ok := sections[0].Node.(*Folder)
	require.True(t, ok)
	assert.Equal(t, KindLog, runs.Kind)
	assert.Nil(t, runs.Index)
	assert.Equal(t, KindLog, runs.Documents[0].Kind)
	assert.Equal(t, "Reached base temperature.", runs.Documents[0].SummaryCells()[0].Source)

	setup, ok := sections[1].Node.(*Document)
	require.True(t, ok)
	assert.Equal(t, KindNotebook, setup.Kind)
	assert.Empty(t, setup.SummaryCells())

	require.NotNil(t, tree.Root.Summary)
	assert.Equal(t, []string{"Runs", "Setup"}, childNames(tree.Root))
}

func TestBuildManifest_Errors(t *testing.T) {
	root := t.TempDir()
	helpers.LabTree(t, root)
	helpers.WriteFile(t, root, "notes.txt", "plain text")

	tests := []struct {
		name  string
		entry ManifestEntry
	}{
		{"plain text file", ManifestEntry{Name: "Notes", Path: "notes.txt"}},
		{"unknown class", ManifestEntry{Name: "Runs", Path: "2 - Runs", Class: "Spreadsheet"}},
		{"missing path", ManifestEntry{Name: "Gone", Path: "9 - Gone"}},
		{"outside base", ManifestEntry{Name: "Up", Path: ".."}},
		{"base itself", ManifestEntry{Name: "Self", Path: "."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(DefaultOptions()).BuildManifest(root, "Lab", []ManifestEntry{tt.entry})
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err), "got %v", err)
		})
	}
}
