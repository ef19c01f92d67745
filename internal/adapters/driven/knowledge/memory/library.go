// Package memory provides an in-memory reference library backend.
//
// The library backs both source data lookups and citation verification
// from the same curated entries, so a study imported once serves every
// checker. All verdicts are deterministic; repeated validation of an
// unchanged document yields identical results.
package memory

import (
	"context"
	"sync"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure Library implements the knowledge ports.
var (
	_ driven.SourceDataLookup      = (*Library)(nil)
	_ driven.CitationKnowledgeBase = (*Library)(nil)
)

// Library is an in-memory reference library.
type Library struct {
	mu     sync.RWMutex
	refs   map[string]knowledge.Reference
	values map[string]map[string]domain.SourceValue
}

// NewLibrary creates a library seeded with the given entries.
func NewLibrary(refs ...knowledge.Reference) *Library {
	l := &Library{
		refs:   make(map[string]knowledge.Reference),
		values: make(map[string]map[string]domain.SourceValue),
	}
	l.Import(refs)
	return l
}

// NewSeededLibrary creates a library holding the built-in starter set.
func NewSeededLibrary() *Library {
	return NewLibrary(knowledge.Seed()...)
}

// Import adds or replaces entries and returns the number imported.
func (l *Library) Import(refs []knowledge.Reference) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, ref := range refs {
		key := ref.NormalKey()
		if key == "" {
			continue
		}
		l.refs[key] = ref

		params := make(map[string]domain.SourceValue, len(ref.Values))
		for _, value := range ref.Values {
			params[knowledge.NormalizeParameter(value.Parameter)] = value
		}
		l.values[key] = params
		count++
	}
	return count
}

// Len returns the number of entries in the library.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.refs)
}

// LookupValue returns the value a source study reports for a parameter.
func (l *Library) LookupValue(_ context.Context, sourceKey, parameter string) (domain.SourceValue, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	params, ok := l.values[knowledge.NormalizeKey(sourceKey)]
	if !ok {
		return domain.SourceValue{}, domain.ErrNotFound
	}
	value, ok := params[knowledge.NormalizeParameter(parameter)]
	if !ok {
		return domain.SourceValue{}, domain.ErrNotFound
	}
	return value, nil
}

// VerifyCitation checks a citation against the library. Unknown keys
// yield a definitive negative verdict rather than an error: the library
// is authoritative for its own contents.
func (l *Library) VerifyCitation(_ context.Context, citation domain.Citation) (domain.CitationRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ref, ok := l.refs[knowledge.NormalizeKey(citation.Key)]
	if !ok {
		return domain.CitationRecord{Exists: false, Confidence: 1}, nil
	}
	return ref.Verdict(citation.Context), nil
}
