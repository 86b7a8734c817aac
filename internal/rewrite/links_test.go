package rewrite

import (
	"testing"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"github.com/stretchr/testify/require"
)

func TestReroute_AnchorLinks(t *testing.T) {
	cells := []cell.Cell{
		cell.NewMarkdown("See [results](#results) and [setup](#setup).\nPlain #hash text"),
		cell.NewCode("[not](#touched)"),
	}

	out := Reroute(cells, "../2 - Runs/3 - Scan.html")
	require.Equal(t,
		"See [results](../2%20-%20Runs/3%20-%20Scan.html#results) and [setup](../2%20-%20Runs/3%20-%20Scan.html#setup).\nPlain #hash text",
		out[0].Source)
	require.Equal(t, "[not](#touched)", out[1].Source)
	require.Equal(t, "See [results](#results) and [setup](#setup).\nPlain #hash text", cells[0].Source)
}

func TestReroute_DocumentLinks(t *testing.T) {
	cells := []cell.Cell{cell.NewMarkdown(
		"[other](other.ipynb) [deep](../a/b.ipynb#fig-2) [site](https://example.com/page)")}

	out := Reroute(cells, "doc.html")
	require.Equal(t,
		"[other](other.html) [deep](../a/b.html#fig-2) [site](https://example.com/page)",
		out[0].Source)
}

func TestReroute_Idempotent(t *testing.T) {
	cells := []cell.Cell{cell.NewMarkdown("[a](#x) [b](y.ipynb)")}

	once := Reroute(cells, "doc.html")
	twice := Reroute(once, "doc.html")
	require.True(t, cell.EqualAll(once, twice))
	require.Equal(t, "[a](doc.html#x) [b](y.html)", twice[0].Source)
}

func TestHrefAndSwapExtension(t *testing.T) {
	require.Equal(t, "1%20-%20A/index.html", Href("1 - A/index.html"))
	require.Equal(t, "../x.html", Href("../x.html"))
	require.Equal(t, "", Href(""))
	require.Equal(t, "a/b.html", SwapExtension("a/b.ipynb", ".ipynb"))
	require.Equal(t, "a/b.txt", SwapExtension("a/b.txt", ".ipynb"))
}
