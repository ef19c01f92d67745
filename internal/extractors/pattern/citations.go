package pattern

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure CitationExtractor implements the port.
var _ driven.CitationExtractor = (*CitationExtractor)(nil)

// ReferenceListType is the section type holding the bibliography.
const ReferenceListType = "reference-list"

var (
	// parenCitationRe matches a parenthetical group of author-year
	// citations, e.g. (Smith, 2020) or (Smith, 2020; Jones et al., 2019).
	parenCitationRe = regexp.MustCompile(`\(([^()]*?[A-Za-z][^()]*?,\s*\d{4}[a-z]?(?:\s*;\s*[^()]*?,\s*\d{4}[a-z]?)*)\)`)

	// numericCitationRe matches a bracketed marker group, e.g. [12],
	// [3-5] or [1, 4].
	numericCitationRe = regexp.MustCompile(`\[(\d{1,3}(?:\s*[-–]\s*\d{1,3})?(?:\s*,\s*\d{1,3}(?:\s*[-–]\s*\d{1,3})?)*)\]`)

	// enumeratorRe matches a reference-list entry lead, e.g. "1.", "[2]"
	// or "3)".
	enumeratorRe = regexp.MustCompile(`^\s*\[?(\d{1,3})\]?[.)\]]?\s+`)

	// entryKeyRe derives an author-year key from a reference entry: the
	// lead surname and the first year within reach of it.
	entryKeyRe = regexp.MustCompile(`([A-Z][A-Za-z\-']+)[^\d]{0,80}?(\d{4})`)

	yearRe = regexp.MustCompile(`\d{4}`)
)

const citationContextMax = 200

// rangeExpansionCap bounds how many markers a single bracket range may
// expand to; anything larger is a typo, not a citation.
const rangeExpansionCap = 50

// CitationExtractor finds citations across the document.
type CitationExtractor struct{}

// NewCitationExtractor creates a pattern-based citation extractor.
func NewCitationExtractor() *CitationExtractor {
	return &CitationExtractor{}
}

// ExtractCitations runs three passes: parenthetical author-year groups,
// bracketed numeric markers, and reference-list entries. In-text passes
// skip the reference list so enumerators are not mistaken for markers.
func (e *CitationExtractor) ExtractCitations(_ context.Context, doc *domain.Document) ([]domain.Citation, error) {
	var citations []domain.Citation
	for i := range doc.Sections {
		section := &doc.Sections[i]
		if strings.EqualFold(section.Type, ReferenceListType) {
			citations = append(citations, referenceEntries(section)...)
			continue
		}
		citations = append(citations, authorYearCitations(section)...)
		citations = append(citations, numericCitations(section)...)
	}
	return citations, nil
}

func authorYearCitations(section *domain.Section) []domain.Citation {
	matches := parenCitationRe.FindAllStringSubmatchIndex(section.Content, -1)
	var out []domain.Citation
	for _, m := range matches {
		inner := section.Content[m[2]:m[3]]
		supported := sentenceBefore(section.Content, m[0], citationContextMax)
		for _, part := range strings.Split(inner, ";") {
			part = strings.TrimSpace(part)
			key := authorYearKey(part)
			if key == "" {
				continue
			}
			out = append(out, domain.Citation{
				Raw:       "(" + part + ")",
				Key:       key,
				Format:    domain.CitationAuthorYear,
				SectionID: section.ID,
				Context:   supported,
			})
		}
	}
	return out
}

// authorYearKey normalises "Smith et al., 2020" to "smith-2020".
func authorYearKey(entry string) string {
	comma := strings.LastIndex(entry, ",")
	if comma < 0 {
		return ""
	}
	year := yearRe.FindString(entry[comma:])
	if year == "" {
		return ""
	}
	authors := strings.TrimSpace(entry[:comma])
	lead := strings.FieldsFunc(authors, func(r rune) bool {
		return r == ' ' || r == '&' || r == ','
	})
	if len(lead) == 0 {
		return ""
	}
	return strings.ToLower(lead[0]) + "-" + year
}

func numericCitations(section *domain.Section) []domain.Citation {
	matches := numericCitationRe.FindAllStringSubmatchIndex(section.Content, -1)
	var out []domain.Citation
	for _, m := range matches {
		raw := section.Content[m[0]:m[1]]
		supported := sentenceBefore(section.Content, m[0], citationContextMax)
		for _, key := range expandMarkers(section.Content[m[2]:m[3]]) {
			out = append(out, domain.Citation{
				Raw:       raw,
				Key:       key,
				Format:    domain.CitationNumeric,
				SectionID: section.ID,
				Context:   supported,
			})
		}
	}
	return out
}

// expandMarkers turns "3-5, 9" into ["3" "4" "5" "9"].
func expandMarkers(inner string) []string {
	var keys []string
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := splitRange(part)
		switch {
		case !isRange:
			keys = append(keys, part)
		case hi >= lo && hi-lo < rangeExpansionCap:
			for n := lo; n <= hi; n++ {
				keys = append(keys, strconv.Itoa(n))
			}
		default:
			keys = append(keys, strconv.Itoa(lo), strconv.Itoa(hi))
		}
	}
	return keys
}

func splitRange(part string) (lo, hi int, ok bool) {
	idx := strings.IndexAny(part, "-–")
	if idx < 0 {
		return 0, 0, false
	}
	loStr := strings.TrimSpace(part[:idx])
	hiStr := strings.TrimSpace(strings.TrimLeft(part[idx:], "-–"))
	lo, err1 := strconv.Atoi(loStr)
	hi, err2 := strconv.Atoi(hiStr)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// referenceEntries segments the reference list into entries. Enumerated
// lines start entries and unenumerated lines fold into the previous one;
// a list with no enumerators treats every non-blank line as an entry.
func referenceEntries(section *domain.Section) []domain.Citation {
	lines := strings.Split(section.Content, "\n")

	type entry struct {
		number string
		text   []string
	}
	var entries []entry
	enumerated := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := enumeratorRe.FindStringSubmatch(line); m != nil {
			enumerated = true
			entries = append(entries, entry{
				number: m[1],
				text:   []string{strings.TrimSpace(enumeratorRe.ReplaceAllString(line, ""))},
			})
			continue
		}
		if enumerated && len(entries) > 0 {
			last := &entries[len(entries)-1]
			last.text = append(last.text, trimmed)
			continue
		}
		entries = append(entries, entry{text: []string{trimmed}})
	}

	var out []domain.Citation
	for _, en := range entries {
		raw := strings.Join(en.text, " ")
		key := en.number
		if key == "" {
			if m := entryKeyRe.FindStringSubmatch(raw); m != nil {
				key = strings.ToLower(m[1]) + "-" + m[2]
			}
		}
		out = append(out, domain.Citation{
			Raw:       raw,
			Key:       key,
			Format:    domain.CitationReferenceList,
			SectionID: section.ID,
		})
	}
	return out
}
