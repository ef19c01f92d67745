package pattern

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure NumericExtractor implements the port.
var _ driven.NumericExtractor = (*NumericExtractor)(nil)

// findingRe matches an optional parameter phrase, a linking word, a signed
// decimal value, and an optional unit. Longer unit tokens come first so
// "mmHg" is not consumed as "mm".
var findingRe = regexp.MustCompile(`(?i)(?:\b([a-z][a-z \-]{2,60}?)\s+(?:of|was|were|is|are|at|reached|averaged|measured)\s+)?(-?\d+(?:\.\d+)?)\s*(beats per minute|mmhg|mmol/l|mg/dl|g/dl|[μµu]g/ml|ng/ml|bpm|%|kg|cm|mm|ml|years?|months?|weeks?|days?|hours?|minutes?)?\b`)

// canonicalUnits maps lowercase unit tokens to their canonical spelling.
var canonicalUnits = map[string]string{
	"%":                 "%",
	"mmhg":              "mmHg",
	"mg/dl":             "mg/dl",
	"g/dl":              "g/dl",
	"mmol/l":            "mmol/l",
	"μg/ml":             "μg/ml",
	"µg/ml":             "μg/ml",
	"ug/ml":             "μg/ml",
	"ng/ml":             "ng/ml",
	"bpm":               "bpm",
	"beats per minute":  "bpm",
	"kg":                "kg",
	"cm":                "cm",
	"mm":                "mm",
	"ml":                "ml",
	"year":              "years",
	"years":             "years",
	"month":             "months",
	"months":            "months",
	"week":              "weeks",
	"weeks":             "weeks",
	"day":               "days",
	"days":              "days",
	"hour":              "hours",
	"hours":             "hours",
	"minute":            "minutes",
	"minutes":           "minutes",
}

// Source attribution patterns searched in the finding context.
var (
	parenSourceRe  = regexp.MustCompile(`\(([A-Z][A-Za-z\-']+)(?:\s+et\s+al\.?)?(?:\s*&\s*[A-Z][A-Za-z\-']+)?,?\s+(\d{4})[a-z]?\)`)
	namedSourceRe  = regexp.MustCompile(`(?i)\b(?:study|trial|analysis|data|report(?:ed)?|cohort)\s+(?:by|from)\s+([A-Z][A-Za-z\-']+)(?:\s+et\s+al\.?)?[\s,]+\(?(\d{4})\)?`)
	leadingNoiseRe = regexp.MustCompile(`(?i)^(?:the|a|an)\s+`)
)

const numericContextRadius = 100

// NumericExtractor finds numeric clinical statements in section text.
type NumericExtractor struct{}

// NewNumericExtractor creates a pattern-based numeric extractor.
func NewNumericExtractor() *NumericExtractor {
	return &NumericExtractor{}
}

// ExtractFindings returns the numeric findings stated in the section.
// Bare numbers with neither a parameter phrase nor a unit are dropped;
// they are years, counts, and citation markers, not clinical values.
func (e *NumericExtractor) ExtractFindings(_ context.Context, section domain.Section) ([]domain.NumericFinding, error) {
	matches := findingRe.FindAllStringSubmatchIndex(section.Content, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	var findings []domain.NumericFinding
	for _, m := range matches {
		parameter := group(section.Content, m, 1)
		unitRaw := group(section.Content, m, 3)
		if parameter == "" && unitRaw == "" {
			continue
		}
		if insideBrackets(section.Content, m[4]) {
			continue
		}

		value, err := strconv.ParseFloat(group(section.Content, m, 2), 64)
		if err != nil {
			continue
		}

		parameter = strings.TrimSpace(leadingNoiseRe.ReplaceAllString(parameter, ""))
		ctxText := window(section.Content, m[0], m[1], numericContextRadius)

		findings = append(findings, domain.NumericFinding{
			Parameter: strings.ToLower(parameter),
			Value:     value,
			Unit:      canonicalUnits[strings.ToLower(unitRaw)],
			SourceKey: nearestSourceKey(ctxText),
			SectionID: section.ID,
			Context:   ctxText,
		})
	}
	return findings, nil
}

// group returns the text of capture group n, or "" when it did not match.
func group(text string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 {
		return ""
	}
	return strings.TrimSpace(text[lo:hi])
}

// insideBrackets reports whether the value starting at pos sits inside a
// bracketed citation marker such as [12].
func insideBrackets(text string, pos int) bool {
	open := strings.LastIndexByte(text[:pos], '[')
	if open < 0 {
		return false
	}
	closing := strings.IndexByte(text[open:], ']')
	if closing < 0 {
		return false
	}
	return open+closing >= pos
}

// nearestSourceKey resolves the citation attributed to a finding from its
// context window. Parenthetical author-year wins over narrative
// attribution when both are present.
func nearestSourceKey(context string) string {
	if m := parenSourceRe.FindStringSubmatch(context); m != nil {
		return sourceKey(m[1], m[2])
	}
	if m := namedSourceRe.FindStringSubmatch(context); m != nil {
		return sourceKey(m[1], m[2])
	}
	return ""
}

func sourceKey(author, year string) string {
	return strings.ToLower(author) + "-" + year
}
