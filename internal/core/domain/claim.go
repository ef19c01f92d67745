package domain

import "strings"

// Claim is an efficacy or safety assertion extracted from report text.
type Claim struct {
	// Text is the asserted proposition, without the reporting verb.
	Text string `json:"text"`

	// SectionID is the section the claim was extracted from.
	SectionID string `json:"section_id"`

	// Context is the surrounding text of the assertion.
	Context string `json:"context,omitempty"`
}

// IntendedUse captures the device's declared purpose. Empty fields mean
// the statement is absent, which is itself a completeness concern but
// not an extraction error.
type IntendedUse struct {
	// Indications describes the conditions the device is intended for.
	Indications string `json:"indications,omitempty"`

	// Contraindications describes conditions the device must not be used for.
	Contraindications string `json:"contraindications,omitempty"`

	// PatientPopulation describes the intended patient group.
	PatientPopulation string `json:"patient_population,omitempty"`
}

// IsEmpty reports whether no intended-use field was extracted.
func (u IntendedUse) IsEmpty() bool {
	return u.Indications == "" && u.Contraindications == "" && u.PatientPopulation == ""
}

// ClaimConflict pairs two claims that cannot both hold.
type ClaimConflict struct {
	// First is the earlier claim in document order.
	First Claim `json:"first"`

	// Second is the later, contradicting claim.
	Second Claim `json:"second"`

	// Reason names the contradictory terms.
	Reason string `json:"reason"`
}

// NormalizeClaimText lowercases and collapses whitespace so claim
// comparisons are insensitive to formatting.
func NormalizeClaimText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
