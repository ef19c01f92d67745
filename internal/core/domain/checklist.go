package domain

// ChecklistItem is one regulatory requirement the report must address.
type ChecklistItem struct {
	// ID is the item identifier, unique within a framework.
	ID string `json:"id"`

	// Description states the requirement in regulator language.
	Description string `json:"description"`

	// RegulatoryRef cites the clause the item derives from.
	RegulatoryRef string `json:"regulatory_ref"`

	// Criticality is the severity raised when the item fails.
	// One of critical, major, minor.
	Criticality Severity `json:"criticality"`

	// SectionTypes lists the section types consulted when evaluating
	// the item. Empty means the whole document is consulted.
	SectionTypes []string `json:"section_types,omitempty"`
}

// ChecklistItemResult is one evaluated checklist row.
type ChecklistItemResult struct {
	// Item is the requirement that was evaluated.
	Item ChecklistItem `json:"item"`

	// Passed reports whether the report content satisfied the item.
	Passed bool `json:"passed"`

	// MatchedTerms lists the item key terms found in the content.
	MatchedTerms []string `json:"matched_terms,omitempty"`

	// TotalTerms is the number of key terms derived from the item.
	TotalTerms int `json:"total_terms"`
}

// ChecklistSummary aggregates the checklist evaluation.
type ChecklistSummary struct {
	// Total is the number of items evaluated.
	Total int `json:"total"`

	// Passed is the number of satisfied items.
	Passed int `json:"passed"`

	// Failed is the number of unsatisfied items.
	Failed int `json:"failed"`

	// Items holds the per-item detail in registry order.
	Items []ChecklistItemResult `json:"items,omitempty"`
}
