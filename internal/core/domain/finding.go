package domain

// NumericFinding is a numeric clinical statement extracted from report text.
type NumericFinding struct {
	// Parameter names the measured quantity (e.g. "heart rate").
	// Empty when no parameter phrase preceded the number.
	Parameter string `json:"parameter,omitempty"`

	// Value is the stated numeric value.
	Value float64 `json:"value"`

	// Unit is the unit token following the value. Empty for bare numbers.
	Unit string `json:"unit,omitempty"`

	// SourceKey is the citation key attributed to the finding, resolved
	// from the surrounding context. Empty for unattributed findings.
	SourceKey string `json:"source_key,omitempty"`

	// SectionID is the section the finding was extracted from.
	SectionID string `json:"section_id"`

	// Context is the text surrounding the value.
	Context string `json:"context,omitempty"`
}

// SourceValue is the authoritative value a source study reports
// for one parameter.
type SourceValue struct {
	// Parameter names the measured quantity.
	Parameter string `json:"parameter"`

	// Value is the authoritative numeric value.
	Value float64 `json:"value"`

	// Unit is the unit the source reports the value in.
	Unit string `json:"unit,omitempty"`
}
