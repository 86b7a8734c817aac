package preprocess

import (
	"git.home.luguber.info/inful/labsite/internal/doctree"
)

// Options parameterize the standard chains.
type Options struct {
	InitializationMarker string
	WrapWidth            int
}

// ForKind returns the chain applied to a page of the given kind before export.
func ForKind(kind doctree.Kind, opts Options) Chain {
	switch kind {
	case doctree.KindNotebook:
		return Chain{RemoveJavaScriptOutputs()}
	case doctree.KindLog:
		return Chain{
			RemoveJavaScriptOutputs(),
			RemoveInitializationCell(opts.InitializationMarker),
			RemoveBeforeSummary(),
		}
	case doctree.KindSummary:
		return Chain{
			RemoveJavaScriptOutputs(),
			RemoveInitializationCell(opts.InitializationMarker),
		}
	default:
		return nil
	}
}

// Overview is the chain for the combined measurement overview.
func Overview(opts Options) Chain {
	return Chain{NewPage(), RemoveWarnings(), WrapPrint(opts.WrapWidth)}
}
