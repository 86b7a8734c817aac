package doctree

import "errors"

var (
	// ErrIndexNotCompiled indicates a link to a folder was requested before its index document existed.
	ErrIndexNotCompiled = errors.New("folder index not compiled")

	// ErrUnreachable indicates the target path does not share an ancestor with the source path.
	ErrUnreachable = errors.New("target not reachable from source")

	// ErrBrokenAncestry indicates a parent chain that does not strictly ascend towards the root.
	ErrBrokenAncestry = errors.New("parent chain does not ascend")
)
