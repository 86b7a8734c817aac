package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_IsIndependent(t *testing.T) {
	orig := NewCode("print(1)", Output{"output_type": "stream", "name": "stdout", "text": "1\n"})
	orig.Metadata = map[string]any{"tags": "init"}

	cp := orig.Clone()
	cp.Source = "print(2)"
	cp.Outputs[0]["text"] = "2\n"
	cp.Metadata["tags"] = "other"

	require.Equal(t, "print(1)", orig.Source)
	require.Equal(t, "1\n", orig.Outputs[0]["text"])
	require.Equal(t, "init", orig.Metadata["tags"])
}

func TestEqual_Structural(t *testing.T) {
	a := NewMarkdown("# Title")
	b := Cell{Kind: KindMarkdown, Source: "# Title", Outputs: []Output{}, Metadata: map[string]any{}}

	assert.True(t, Equal(a, b), "empty and nil collections compare equal")
	assert.False(t, Equal(a, NewRaw("# Title")))
	assert.False(t, Equal(a, NewMarkdown("# Other")))
	assert.True(t, EqualAll([]Cell{a, NewRaw("x")}, CloneAll([]Cell{a, NewRaw("x")})))
	assert.False(t, EqualAll([]Cell{a}, nil))
}

func TestMarkdownSources(t *testing.T) {
	cells := []Cell{NewMarkdown("a"), NewCode("b"), NewRaw("c"), NewMarkdown("d")}
	require.Equal(t, []string{"a", "d"}, MarkdownSources(cells))
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "# Summary", NewMarkdown("# Summary\nbody").FirstLine())
	require.Equal(t, "", NewMarkdown("").FirstLine())
}
