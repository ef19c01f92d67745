package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure the extractors implement their ports.
var (
	_ driven.ClaimExtractor       = (*ClaimExtractor)(nil)
	_ driven.IntendedUseExtractor = (*IntendedUseExtractor)(nil)
)

// claimRe matches an assertion verb followed by a "that" clause. The
// clause up to the next sentence break is the claim text.
var claimRe = regexp.MustCompile(`(?i)\b(?:claims?|claimed|claiming|asserts?|asserted|asserting|states?|stated|stating|demonstrates?|demonstrated|demonstrating|shows?|showed|shown|showing|indicates?|indicated|confirms?|confirmed)\s+that\s+([^.;!?]+)`)

const claimContextRadius = 50

// ClaimExtractor finds assertion-verb claims in section text.
type ClaimExtractor struct{}

// NewClaimExtractor creates a pattern-based claim extractor.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// ExtractClaims returns the claims asserted in the section, in order
// of appearance.
func (e *ClaimExtractor) ExtractClaims(_ context.Context, section domain.Section) ([]domain.Claim, error) {
	matches := claimRe.FindAllStringSubmatchIndex(section.Content, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	claims := make([]domain.Claim, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(section.Content[m[2]:m[3]])
		if text == "" {
			continue
		}
		claims = append(claims, domain.Claim{
			Text:      text,
			SectionID: section.ID,
			Context:   window(section.Content, m[0], m[1], claimContextRadius),
		})
	}
	return claims, nil
}

// Intended-use field patterns, tried in order; the first match wins.
var (
	indicationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bindicated\s+for\s+(?:the\s+|use\s+in\s+)?([^.;\n]+)`),
		regexp.MustCompile(`(?i)\bindications?\s*(?::|include|includes|are|is)\s*([^.;\n]+)`),
	}
	contraindicationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcontraindicated\s+(?:in|for)\s+(?:patients\s+with\s+)?([^.;\n]+)`),
		regexp.MustCompile(`(?i)\bcontraindications?\s*(?::|include|includes|are|is)\s*([^.;\n]+)`),
	}
	populationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:intended|target)\s+(?:patient\s+)?population\s*(?::|is|includes|consists\s+of)?\s*([^.;\n]+)`),
		regexp.MustCompile(`(?i)\bintended\s+for\s+use\s+in\s+([^.;\n]+)`),
	}
)

// Section keys consulted for the intended-use statement, in order.
var intendedUseKeys = []string{"intended-purpose", "intended-use", "device-description"}

// IntendedUseExtractor derives the declared purpose from the
// intended-purpose section.
type IntendedUseExtractor struct{}

// NewIntendedUseExtractor creates a pattern-based intended-use extractor.
func NewIntendedUseExtractor() *IntendedUseExtractor {
	return &IntendedUseExtractor{}
}

// ExtractIntendedUse returns the intended-use fields found in the
// document. Absent fields stay empty; that is a completeness concern,
// not an extraction error.
func (e *IntendedUseExtractor) ExtractIntendedUse(_ context.Context, doc *domain.Document) (domain.IntendedUse, error) {
	var use domain.IntendedUse
	for _, key := range intendedUseKeys {
		section, ok := doc.SectionByKey(key)
		if !ok {
			continue
		}
		if use.Indications == "" {
			use.Indications = firstGroup(indicationRes, section.Content)
		}
		if use.Contraindications == "" {
			use.Contraindications = firstGroup(contraindicationRes, section.Content)
		}
		if use.PatientPopulation == "" {
			use.PatientPopulation = firstGroup(populationRes, section.Content)
		}
		if use.Indications != "" && use.Contraindications != "" && use.PatientPopulation != "" {
			break
		}
	}
	return use, nil
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
