// Package cell defines the smallest unit of notebook content.
//
// Cells are values: transforms take a slice and return a new slice, and the
// helpers here make copying cheap to get right.
package cell

import (
	"maps"
	"reflect"
	"strings"
)

// Kind tags the type of a cell.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindCode     Kind = "code"
	KindRaw      Kind = "raw"
)

// Output is an opaque output record of a code cell (a decoded nbformat output).
type Output map[string]any

// Cell is one parsed unit of document content.
type Cell struct {
	Kind     Kind
	Source   string
	Outputs  []Output
	Metadata map[string]any
}

// NewMarkdown returns a markdown cell with the given source.
func NewMarkdown(source string) Cell {
	return Cell{Kind: KindMarkdown, Source: source}
}

// NewCode returns a code cell with the given source and outputs.
func NewCode(source string, outputs ...Output) Cell {
	return Cell{Kind: KindCode, Source: source, Outputs: outputs}
}

// NewRaw returns a raw cell with the given source.
func NewRaw(source string) Cell {
	return Cell{Kind: KindRaw, Source: source}
}

// IsMarkdown reports whether the cell holds markdown text.
func (c Cell) IsMarkdown() bool { return c.Kind == KindMarkdown }

// IsCode reports whether the cell holds executable code.
func (c Cell) IsCode() bool { return c.Kind == KindCode }

// FirstLine returns the first line of the source without its newline.
func (c Cell) FirstLine() string {
	line, _, _ := strings.Cut(c.Source, "\n")
	return line
}

// Clone returns a deep copy of the cell. Outputs and metadata are copied one
// level deep, which is as far as any transform in this module mutates them.
func (c Cell) Clone() Cell {
	out := Cell{Kind: c.Kind, Source: c.Source}
	if c.Outputs != nil {
		out.Outputs = make([]Output, len(c.Outputs))
		for i, o := range c.Outputs {
			out.Outputs[i] = maps.Clone(o)
		}
	}
	if c.Metadata != nil {
		out.Metadata = maps.Clone(c.Metadata)
	}
	return out
}

// Equal reports structural equality of two cells.
func Equal(a, b Cell) bool {
	return a.Kind == b.Kind &&
		a.Source == b.Source &&
		reflect.DeepEqual(normalizeOutputs(a.Outputs), normalizeOutputs(b.Outputs)) &&
		reflect.DeepEqual(normalizeMeta(a.Metadata), normalizeMeta(b.Metadata))
}

func normalizeOutputs(o []Output) []Output {
	if len(o) == 0 {
		return nil
	}
	return o
}

func normalizeMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// CloneAll deep-copies a cell sequence.
func CloneAll(cells []Cell) []Cell {
	if cells == nil {
		return nil
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = c.Clone()
	}
	return out
}

// EqualAll reports structural equality of two cell sequences.
func EqualAll(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// MarkdownSources returns the sources of all markdown cells in order.
func MarkdownSources(cells []Cell) []string {
	var out []string
	for _, c := range cells {
		if c.IsMarkdown() {
			out = append(out, c.Source)
		}
	}
	return out
}
