package doctree

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		offset int
		want   string
	}{
		{"from empty root", "", "a/b.ipynb", 0, "a/b.html"},
		{"from dot root", ".", "a/b.ipynb", 0, "a/b.html"},
		{"sibling", "a/x.ipynb", "a/y.ipynb", 0, "y.html"},
		{"into child", "a/index.ipynb", "a/b/x.ipynb", 0, "b/x.html"},
		{"one level up", "a/b/x.ipynb", "a/y.ipynb", 0, "../y.html"},
		{"across the root", "a/b/x.ipynb", "c/y.ipynb", 0, "../../c/y.html"},
		{"top level to top level", "x.ipynb", "y.ipynb", 0, "y.html"},
		{"offset adds ascents", "a/index.ipynb", "a/b/x.ipynb", 1, "../b/x.html"},
		{"spaces kept", "1 - A/x.ipynb", "2 - B/y.ipynb", 0, "../2 - B/y.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.from, tt.to, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_RootLinkHasNoAscent(t *testing.T) {
	got, err := Resolve("", "2 - Runs/1 - Cooldown.ipynb", 0)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(got, "../"))
}

func TestResolve_Unreachable(t *testing.T) {
	_, err := Resolve("a/x.ipynb", "../outside.ipynb", 0)
	require.Error(t, err)
	assert.True(t, errors.IsLinkResolutionError(err))
	assert.True(t, stderrors.Is(err, ErrUnreachable))
}

func TestResolve_DepthSymmetry(t *testing.T) {
	paths := []string{
		"x.ipynb",
		"a/x.ipynb",
		"a/b/x.ipynb",
		"a/b/c/y.ipynb",
		"c/y.ipynb",
		"c/d/e/z.ipynb",
	}
	for _, a := range paths {
		for _, b := range paths {
			ab, err := Resolve(a, b, 0)
			require.NoError(t, err)
			ba, err := Resolve(b, a, 0)
			require.NoError(t, err)

			// Both links climb to the same common ancestor.
			common := depth(parentDirs(a)[0]) - strings.Count(ab, "../")
			assert.Equal(t, common, depth(parentDirs(b)[0])-strings.Count(ba, "../"), "%s <-> %s", a, b)
		}
	}
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, depth(""))
	assert.Equal(t, 0, depth("."))
	assert.Equal(t, 1, depth("a"))
	assert.Equal(t, 3, depth("a/b/c.ipynb"))
}
