package doctree

import (
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/foundation/normalization"
)

// Kind is the closed set of document variants.
type Kind string

const (
	// KindNotebook is a plain document; it contributes only a link to its folder index.
	KindNotebook Kind = "notebook"
	// KindLog is a lab-log document whose "Summary" section is quoted in its folder index.
	KindLog Kind = "log"
	// KindSummary is a folder's summary document.
	KindSummary Kind = "summary"
	// KindIndex is a synthesized folder index.
	KindIndex Kind = "index"
)

// ExposesSummary reports whether documents of this kind quote their summary
// section in the parent folder's index.
func (k Kind) ExposesSummary() bool {
	return k == KindLog
}

// Registry resolves manifest document-class tags to kinds.
type Registry struct {
	tags *normalization.Normalizer[Kind]
}

// NewRegistry builds a registry from tag -> kind pairs. Tags compare
// case-insensitively and ignore separators.
func NewRegistry(tags map[string]Kind) *Registry {
	return &Registry{tags: normalization.WithCustomNormalizer(tags, "", normalization.IdentifierNormalization)}
}

// DefaultRegistry knows the document classes used by existing site configs.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Kind{
		"Notebook":        KindNotebook,
		"LogNotebook":     KindLog,
		"Log":             KindLog,
		"SummaryNotebook": KindSummary,
		"Summary":         KindSummary,
	})
}

// Lookup returns the kind for a tag. An empty tag selects KindNotebook.
func (r *Registry) Lookup(tag string) (Kind, error) {
	if tag == "" {
		return KindNotebook, nil
	}
	kind, err := r.tags.NormalizeWithError(tag)
	if err != nil {
		return "", errors.ConfigurationError("unknown document class").
			WithCause(err).
			WithContext("document_class", tag).
			Build()
	}
	return kind, nil
}
