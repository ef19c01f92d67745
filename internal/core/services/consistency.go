package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure ConsistencyChecker implements the interface.
var _ Checker = (*ConsistencyChecker)(nil)

// ConsistencyChecker detects claims that contradict each other or the
// device's declared intended use.
type ConsistencyChecker struct {
	claims      driven.ClaimExtractor
	intendedUse driven.IntendedUseExtractor
}

// NewConsistencyChecker creates a consistency checker.
func NewConsistencyChecker(claims driven.ClaimExtractor, intendedUse driven.IntendedUseExtractor) *ConsistencyChecker {
	return &ConsistencyChecker{
		claims:      claims,
		intendedUse: intendedUse,
	}
}

// Name identifies the checker.
func (c *ConsistencyChecker) Name() string { return "consistency" }

// Check extracts claims from every section, derives the intended use,
// and raises issues for contradictory claim pairs, promotional overreach,
// and claims touching declared contraindications.
func (c *ConsistencyChecker) Check(ctx context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error) {
	var claims []domain.Claim
	for i := range doc.Sections {
		extracted, err := c.claims.ExtractClaims(ctx, doc.Sections[i])
		if err != nil {
			return CheckerReport{}, fmt.Errorf("extract claims from %q: %w", doc.Sections[i].ID, err)
		}
		claims = append(claims, extracted...)
	}

	use, err := c.intendedUse.ExtractIntendedUse(ctx, doc)
	if err != nil {
		return CheckerReport{}, fmt.Errorf("extract intended use: %w", err)
	}

	logger.Debug("Consistency: %d claims extracted, intended use present=%v", len(claims), !use.IsEmpty())

	var report CheckerReport

	// Each contradictory pair is reported exactly once, on the first
	// antonym pair that trips it.
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			reason, conflicting := claimsConflict(claims[i], claims[j], reg.AntonymPairs)
			if !conflicting {
				continue
			}
			report.Conflicts = append(report.Conflicts, domain.ClaimConflict{
				First:  claims[i],
				Second: claims[j],
				Reason: reason,
			})
			report.Issues = append(report.Issues, domain.Issue{
				Type:      domain.IssueInconsistentClaim,
				Severity:  domain.SeverityMajor,
				Message:   fmt.Sprintf("contradictory claims: %q vs %q", claims[i].Text, claims[j].Text),
				SectionID: claims[i].SectionID,
				Details: map[string]string{
					"first_section":  claims[i].SectionID,
					"second_section": claims[j].SectionID,
					"reason":         reason,
				},
			})
		}
	}

	for _, claim := range claims {
		normalized := domain.NormalizeClaimText(claim.Text)
		for _, term := range reg.OverreachTerms {
			if !containsWord(normalized, strings.ToLower(term)) {
				continue
			}
			report.Issues = append(report.Issues, domain.Issue{
				Type:      domain.IssueClaimExceedsIndications,
				Severity:  domain.SeverityCritical,
				Message:   fmt.Sprintf("claim %q exceeds any approvable indication (%q)", claim.Text, term),
				SectionID: claim.SectionID,
				Details: map[string]string{
					"term": term,
				},
			})
			break
		}
	}

	if use.Contraindications != "" {
		terms := contraindicationTerms(use.Contraindications)
		for _, claim := range claims {
			normalized := domain.NormalizeClaimText(claim.Text)
			for _, term := range terms {
				if !containsWord(normalized, term) {
					continue
				}
				report.Issues = append(report.Issues, domain.Issue{
					Type:      domain.IssueClaimViolatesContraindications,
					Severity:  domain.SeverityCritical,
					Message:   fmt.Sprintf("claim %q involves the declared contraindication %q", claim.Text, term),
					SectionID: claim.SectionID,
					Details: map[string]string{
						"contraindication": term,
					},
				})
				break
			}
		}
	}

	return report, nil
}

// claimsConflict reports whether two claims use opposite members of an
// antonym pair. An affirmative term occurring only inside its own negated
// phrase does not count as affirmative.
func claimsConflict(a, b domain.Claim, pairs []domain.AntonymPair) (string, bool) {
	normA := domain.NormalizeClaimText(a.Text)
	normB := domain.NormalizeClaimText(b.Text)

	for _, pair := range pairs {
		term := strings.ToLower(pair.Term)
		negation := strings.ToLower(pair.Negation)

		if containsAffirmative(normA, term, negation) && containsWord(normB, negation) {
			return fmt.Sprintf("%q vs %q", pair.Term, pair.Negation), true
		}
		if containsWord(normA, negation) && containsAffirmative(normB, term, negation) {
			return fmt.Sprintf("%q vs %q", pair.Negation, pair.Term), true
		}
	}
	return "", false
}

// containsAffirmative reports whether text contains term outside every
// occurrence of the negated phrase.
func containsAffirmative(text, term, negation string) bool {
	for from := 0; ; {
		pos := indexWord(text, term, from)
		if pos < 0 {
			return false
		}
		if !withinNegation(text, pos, len(term), negation) {
			return true
		}
		from = pos + 1
	}
}

// withinNegation reports whether the term occurrence at [pos, pos+n) sits
// inside an occurrence of the negated phrase.
func withinNegation(text string, pos, n int, negation string) bool {
	for from := 0; ; {
		start := indexWord(text, negation, from)
		if start < 0 || start > pos {
			return false
		}
		if pos+n <= start+len(negation) {
			return true
		}
		from = start + 1
	}
}

// contraindicationTerms splits the extracted contraindication text into
// matchable terms.
func contraindicationTerms(text string) []string {
	text = strings.ToLower(text)
	for _, sep := range []string{",", ";", " and ", " or "} {
		text = strings.ReplaceAll(text, sep, "|")
	}

	var terms []string
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "patients with ")
		part = strings.TrimPrefix(part, "use in ")
		if len(part) >= 4 {
			terms = append(terms, part)
		}
	}
	return terms
}
