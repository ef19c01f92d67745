package driven

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// ClaimExtractor finds efficacy and safety assertions in section text.
type ClaimExtractor interface {
	// ExtractClaims returns the claims asserted in the section,
	// in order of appearance.
	ExtractClaims(ctx context.Context, section domain.Section) ([]domain.Claim, error)
}

// IntendedUseExtractor derives the device's declared purpose from the
// intended-purpose section.
type IntendedUseExtractor interface {
	// ExtractIntendedUse returns the intended-use fields found in the
	// document. Absent fields are empty, not an error.
	ExtractIntendedUse(ctx context.Context, doc *domain.Document) (domain.IntendedUse, error)
}

// NumericExtractor finds numeric clinical statements in section text.
type NumericExtractor interface {
	// ExtractFindings returns the numeric findings stated in the section,
	// in order of appearance.
	ExtractFindings(ctx context.Context, section domain.Section) ([]domain.NumericFinding, error)
}

// CitationExtractor finds citations across the document.
type CitationExtractor interface {
	// ExtractCitations returns every citation occurrence: parenthetical
	// author-year, bracketed numeric, and reference-list entries.
	ExtractCitations(ctx context.Context, doc *domain.Document) ([]domain.Citation, error)
}
