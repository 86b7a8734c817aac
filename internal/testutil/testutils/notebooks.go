package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/notebook"
)

// WriteNotebook writes a notebook with the given cells below root.
func WriteNotebook(t testing.TB, root, relativePath string, cells ...cell.Cell) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relativePath))
	require.NoError(t, notebook.Write(full, notebook.New(cells...)))
	return full
}

// WriteFile writes a plain file below root.
func WriteFile(t testing.TB, root, relativePath, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	return full
}

// Markdown turns each source into a markdown cell.
func Markdown(sources ...string) []cell.Cell {
	cells := make([]cell.Cell, 0, len(sources))
	for _, s := range sources {
		cells = append(cells, cell.NewMarkdown(s))
	}
	return cells
}

// LabTree writes a small lab notebook:
//
//	0 - Summary.ipynb
//	1 - Setup.ipynb
//	2 - Runs/
//	  0 - Summary.ipynb
//	  1 - Cooldown.ipynb
//	  2 - Scan.ipynb
//	3 - Notes.ipynb
func LabTree(t testing.TB, root string) {
	t.Helper()
	WriteNotebook(t, root, "0 - Summary.ipynb", Markdown("# Lab summary\nAll good.", "## Details\nSee [setup](#setup).")...)
	WriteNotebook(t, root, "1 - Setup.ipynb", Markdown("# Setup", "# Summary", "Fridge cold.", "# Wiring", "Cables.")...)
	WriteNotebook(t, root, "2 - Runs/0 - Summary.ipynb", Markdown("# Runs\nTwo runs.")...)
	WriteNotebook(t, root, "2 - Runs/1 - Cooldown.ipynb", Markdown("# Cooldown", "## Summary", "Reached base temperature.")...)
	WriteNotebook(t, root, "2 - Runs/2 - Scan.ipynb",
		cell.NewMarkdown("# Scan"),
		cell.NewCode("print(1)", cell.Output{"output_type": "stream", "name": "stdout", "text": "1\n"}),
	)
	WriteNotebook(t, root, "3 - Notes.ipynb", Markdown("# Notes", "Scratch.")...)
}
