package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links := ExtractLinks("See [Cooldown](cooldown.ipynb) for details.")
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "cooldown.ipynb", links[0].Destination)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links := ExtractLinks("![Diagram](diagram.png)")
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links := ExtractLinks("<https://example.com/path>")
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := ExtractLinks("See [API][ref].\n\n[ref]: api.ipynb\n")
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.ipynb", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
}

func TestExtractLinks_SpacedDestinations(t *testing.T) {
	links := ExtractLinks("Go to [setup](../1 - Setup.ipynb#wiring) and see ![plot](run 3.png).")
	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "../1 - Setup.ipynb#wiring"},
		{Kind: LinkKindImage, Destination: "run 3.png"},
	}, links)
}

func TestExtractLinks_TitledLinkCountedOnce(t *testing.T) {
	links := ExtractLinks(`[a](b.ipynb "the title")`)
	require.Len(t, links, 1)
	require.Equal(t, "b.ipynb", links[0].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := "" +
		"Inline code: `[Link](./ignored inline.ipynb)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored fence.ipynb)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.ipynb)\n"

	links := ExtractLinks(src)
	require.Len(t, links, 1)
	require.Equal(t, "./real.ipynb", links[0].Destination)
}
