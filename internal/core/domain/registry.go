package domain

import "strings"

// RequiredSection is one section a framework mandates.
type RequiredSection struct {
	// ID is the canonical section identifier, e.g. "risk-benefit-analysis".
	ID string `json:"id"`

	// Name is the human-readable section name.
	Name string `json:"name"`

	// Criticality is the severity raised when the section is missing.
	// Critical sections block completeness; others raise major issues.
	Criticality Severity `json:"criticality"`

	// RegulatoryRef cites the clause mandating the section.
	RegulatoryRef string `json:"regulatory_ref"`
}

// PlausibilityRange bounds a clinical parameter to physically
// plausible values. Bounds are inclusive.
type PlausibilityRange struct {
	// Parameter is the canonical parameter name, e.g. "heart rate".
	Parameter string `json:"parameter"`

	// Aliases lists alternative names matched against extracted findings.
	Aliases []string `json:"aliases,omitempty"`

	// Unit is the unit the bounds are expressed in. A finding is only
	// checked against the range when its unit matches.
	Unit string `json:"unit"`

	// Min is the lowest plausible value, inclusive.
	Min float64 `json:"min"`

	// Max is the highest plausible value, inclusive.
	Max float64 `json:"max"`
}

// Matches reports whether the range applies to the given parameter
// and unit.
func (p PlausibilityRange) Matches(parameter, unit string) bool {
	if !strings.EqualFold(p.Unit, unit) {
		return false
	}
	parameter = strings.ToLower(strings.TrimSpace(parameter))
	if parameter == "" {
		return false
	}
	if strings.Contains(parameter, strings.ToLower(p.Parameter)) {
		return true
	}
	for _, alias := range p.Aliases {
		if strings.Contains(parameter, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

// Contains reports whether the value lies within the inclusive bounds.
func (p PlausibilityRange) Contains(value float64) bool {
	return value >= p.Min && value <= p.Max
}

// AntonymPair is a term and its negated counterpart. Two claims using
// opposite members of a pair about the same subject contradict each other.
type AntonymPair struct {
	// Term is the affirmative form, e.g. "improves".
	Term string `json:"term"`

	// Negation is the contradicting form, e.g. "does not improve".
	Negation string `json:"negation"`
}

// Registry is the rule set for one regulatory framework.
//
// A Registry is built once by its provider and treated as immutable
// afterwards. Checkers receive it at construction and must not modify it.
type Registry struct {
	// Framework is the framework the rules belong to.
	Framework Framework `json:"framework"`

	// RequiredSections lists the sections the framework mandates.
	RequiredSections []RequiredSection `json:"required_sections"`

	// Checklist lists the regulatory checklist items.
	Checklist []ChecklistItem `json:"checklist"`

	// PlausibilityRanges bounds clinical parameters to plausible values.
	PlausibilityRanges []PlausibilityRange `json:"plausibility_ranges"`

	// AntonymPairs drives claim contradiction detection.
	AntonymPairs []AntonymPair `json:"antonym_pairs"`

	// OverreachTerms lists promotional phrasings that exceed any
	// approvable indication, e.g. "guaranteed" or "cures".
	OverreachTerms []string `json:"overreach_terms"`
}

// RequiredSectionByID returns the required-section rule with the given ID.
func (r *Registry) RequiredSectionByID(id string) (RequiredSection, bool) {
	for _, rs := range r.RequiredSections {
		if strings.EqualFold(rs.ID, id) {
			return rs, true
		}
	}
	return RequiredSection{}, false
}

// RangeFor returns the plausibility range applying to the parameter
// and unit, if any.
func (r *Registry) RangeFor(parameter, unit string) (PlausibilityRange, bool) {
	for _, pr := range r.PlausibilityRanges {
		if pr.Matches(parameter, unit) {
			return pr, true
		}
	}
	return PlausibilityRange{}, false
}
