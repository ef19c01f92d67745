package driven

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// SourceDataLookup resolves authoritative clinical values from cited
// source studies. Backed by the local reference library or a remote
// knowledge service.
type SourceDataLookup interface {
	// LookupValue returns the value a source study reports for a parameter.
	// Returns domain.ErrNotFound when the source or parameter is unknown.
	LookupValue(ctx context.Context, sourceKey, parameter string) (domain.SourceValue, error)
}

// CitationKnowledgeBase verifies citations against the reference library.
type CitationKnowledgeBase interface {
	// VerifyCitation checks whether a citation exists and whether the
	// content it supports agrees with the source.
	VerifyCitation(ctx context.Context, citation domain.Citation) (domain.CitationRecord, error)
}
