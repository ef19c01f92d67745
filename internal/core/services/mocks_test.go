package services

import (
	"context"
	"sync"
	"time"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockRegistryProvider implements driven.RegistryProvider for testing.
type mockRegistryProvider struct {
	registry  *domain.Registry
	err       error
	requested []domain.Framework
}

func (m *mockRegistryProvider) Registry(framework domain.Framework) (*domain.Registry, error) {
	m.requested = append(m.requested, framework)
	if m.err != nil {
		return nil, m.err
	}
	return m.registry, nil
}

func (m *mockRegistryProvider) Frameworks() []domain.Framework {
	return []domain.Framework{domain.FrameworkEUMDR}
}

// mockClaimExtractor implements driven.ClaimExtractor for testing,
// returning the configured claims per section ID.
type mockClaimExtractor struct {
	claims map[string][]domain.Claim
	err    error
}

func (m *mockClaimExtractor) ExtractClaims(_ context.Context, section domain.Section) ([]domain.Claim, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims[section.ID], nil
}

// mockIntendedUseExtractor implements driven.IntendedUseExtractor for testing.
type mockIntendedUseExtractor struct {
	use domain.IntendedUse
	err error
}

func (m *mockIntendedUseExtractor) ExtractIntendedUse(_ context.Context, _ *domain.Document) (domain.IntendedUse, error) {
	if m.err != nil {
		return domain.IntendedUse{}, m.err
	}
	return m.use, nil
}

// mockNumericExtractor implements driven.NumericExtractor for testing,
// returning the configured findings per section ID.
type mockNumericExtractor struct {
	findings map[string][]domain.NumericFinding
	err      error
	sections []string
}

func (m *mockNumericExtractor) ExtractFindings(_ context.Context, section domain.Section) ([]domain.NumericFinding, error) {
	m.sections = append(m.sections, section.ID)
	if m.err != nil {
		return nil, m.err
	}
	return m.findings[section.ID], nil
}

// mockCitationExtractor implements driven.CitationExtractor for testing.
type mockCitationExtractor struct {
	citations []domain.Citation
	err       error
}

func (m *mockCitationExtractor) ExtractCitations(_ context.Context, _ *domain.Document) ([]domain.Citation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.citations, nil
}

// mockSourceLookup implements driven.SourceDataLookup for testing.
// Values and errors are keyed by "sourceKey/parameter"; unknown keys
// return domain.ErrNotFound.
type mockSourceLookup struct {
	values map[string]domain.SourceValue
	errs   map[string]error
}

func (m *mockSourceLookup) LookupValue(_ context.Context, sourceKey, parameter string) (domain.SourceValue, error) {
	key := sourceKey + "/" + parameter
	if err, ok := m.errs[key]; ok {
		return domain.SourceValue{}, err
	}
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return domain.SourceValue{}, domain.ErrNotFound
}

// mockCitationKB implements driven.CitationKnowledgeBase for testing.
// Records and errors are keyed by citation key; unknown keys return
// domain.ErrNotFound. Lookup keys are recorded for call assertions.
type mockCitationKB struct {
	records map[string]domain.CitationRecord
	errs    map[string]error

	mu      sync.Mutex
	lookups []string
}

func (m *mockCitationKB) VerifyCitation(_ context.Context, citation domain.Citation) (domain.CitationRecord, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, citation.Key)
	m.mu.Unlock()

	if err, ok := m.errs[citation.Key]; ok {
		return domain.CitationRecord{}, err
	}
	if record, ok := m.records[citation.Key]; ok {
		return record, nil
	}
	return domain.CitationRecord{}, domain.ErrNotFound
}

func (m *mockCitationKB) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lookups)
}

// mockChecker implements Checker for engine tests.
type mockChecker struct {
	name   string
	report CheckerReport
	err    error
	delay  time.Duration
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(ctx context.Context, _ *domain.Document, _ *domain.Registry) (CheckerReport, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return CheckerReport{}, ctx.Err()
		}
	}
	if m.err != nil {
		return CheckerReport{}, m.err
	}
	return m.report, nil
}
