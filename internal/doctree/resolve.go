package doctree

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

// Resolve returns the relative link from the node at fromPath to the rendered
// page of the node at toPath. Both are slash paths relative to the tree root.
//
// offset adds extra ascents, for a folder computing a link on behalf of one
// of its children (one level deeper than the folder itself).
func Resolve(fromPath, toPath string, offset int) (string, error) {
	target := renderedPath(toPath)
	if isRoot(fromPath) {
		return target, nil
	}

	for level, origin := range parentDirs(fromPath) {
		rest, ok := within(origin, target)
		if !ok {
			continue
		}
		return strings.Repeat("../", level+offset) + rest, nil
	}

	return "", errors.LinkResolutionError("could not determine link").
		WithCause(ErrUnreachable).
		WithContext("from", fromPath).
		WithContext("to", toPath).
		Build()
}

func renderedPath(p string) string {
	return rewrite.SwapExtension(p, path.Ext(p))
}

func isRoot(p string) bool {
	return p == "" || p == "."
}

// parentDirs lists the ancestors of p, closest first, ending with the root ".".
func parentDirs(p string) []string {
	var dirs []string
	for dir := path.Dir(path.Clean(p)); ; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == "." || dir == "/" {
			return dirs
		}
	}
}

// within returns target relative to dir when target lies under dir.
func within(dir, target string) (string, bool) {
	target = path.Clean(target)
	if path.IsAbs(target) || target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	if dir == "." {
		return target, true
	}
	rest, ok := strings.CutPrefix(target, dir+"/")
	return rest, ok && rest != ""
}

// depth counts the segments of a relative slash path; the root has depth 0.
func depth(p string) int {
	if isRoot(p) {
		return 0
	}
	return strings.Count(path.Clean(p), "/") + 1
}
