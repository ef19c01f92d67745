package domain

// CitationFormat identifies how a citation appears in the text.
type CitationFormat string

// Citation formats recognised by extraction.
const (
	// CitationAuthorYear is a parenthetical citation such as (Smith, 2020).
	CitationAuthorYear CitationFormat = "author-year"

	// CitationNumeric is a bracketed marker such as [12] or [3-5].
	CitationNumeric CitationFormat = "numeric"

	// CitationReferenceList is an entry in the reference list section.
	CitationReferenceList CitationFormat = "reference-list"
)

// IsValid returns true if the citation format is recognised.
func (f CitationFormat) IsValid() bool {
	switch f {
	case CitationAuthorYear, CitationNumeric, CitationReferenceList:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f CitationFormat) String() string {
	return string(f)
}

// Citation is one citation occurrence extracted from the report.
type Citation struct {
	// Raw is the citation text as it appears in the document.
	Raw string `json:"raw"`

	// Key is the normalised lookup key, e.g. "smith-2020" or "12".
	Key string `json:"key"`

	// Format is how the citation appeared.
	Format CitationFormat `json:"format"`

	// SectionID is the section the citation was found in.
	SectionID string `json:"section_id"`

	// Context is the text the citation supports, used for content
	// verification. Empty for reference-list entries.
	Context string `json:"context,omitempty"`
}

// CitationRecord is the knowledge-base verdict for one citation lookup.
type CitationRecord struct {
	// Exists reports whether the knowledge base knows the citation.
	Exists bool `json:"exists"`

	// Confidence is the knowledge base's confidence in the verdict, 0 to 1.
	Confidence float64 `json:"confidence"`

	// ContentMismatch reports that the citation exists but the cited
	// content disagrees with the source.
	ContentMismatch bool `json:"content_mismatch"`

	// ActualContent is the source's own statement, set when
	// ContentMismatch is true.
	ActualContent string `json:"actual_content,omitempty"`
}
