package domain

// Severity grades how serious a validation issue is.
type Severity string

// Severity tiers, most serious first.
const (
	// SeverityCritical blocks completeness. The report cannot ship.
	SeverityCritical Severity = "critical"

	// SeverityMajor needs reviewer attention before submission.
	SeverityMajor Severity = "major"

	// SeverityMinor is a quality concern that does not block.
	SeverityMinor Severity = "minor"

	// SeveritySuggestion is advisory only.
	SeveritySuggestion Severity = "suggestion"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeveritySuggestion:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// Rank returns the sort weight for the severity. Lower ranks sort first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMajor:
		return 1
	case SeverityMinor:
		return 2
	case SeveritySuggestion:
		return 3
	default:
		return 4
	}
}

// IssueType classifies a validation issue.
type IssueType string

// Issue types raised by the checkers.
const (
	// IssueMissingRequiredSection flags a required section absent from the report.
	IssueMissingRequiredSection IssueType = "missing_required_section"

	// IssueInsufficientContent flags a present section whose body is too short.
	IssueInsufficientContent IssueType = "insufficient_content"

	// IssueInconsistentClaim flags two claims that cannot both hold.
	IssueInconsistentClaim IssueType = "inconsistent_claim"

	// IssueClaimExceedsIndications flags promotional phrasing beyond any indication.
	IssueClaimExceedsIndications IssueType = "claim_exceeds_indications"

	// IssueClaimViolatesContraindications flags a claim naming a contraindication.
	IssueClaimViolatesContraindications IssueType = "claim_violates_contraindications"

	// IssueFactualError flags a numeric finding contradicting source data
	// or falling outside its plausibility range.
	IssueFactualError IssueType = "factual_error"

	// IssueInvalidCitation flags a citation the knowledge base does not know.
	IssueInvalidCitation IssueType = "invalid_citation"

	// IssueCitationContentMismatch flags a citation whose cited content
	// disagrees with the knowledge base record.
	IssueCitationContentMismatch IssueType = "citation_content_mismatch"

	// IssueUnverifiableCitation flags a citation the knowledge base could
	// not be consulted about in time.
	IssueUnverifiableCitation IssueType = "unverifiable_citation"

	// IssueUnverifiableNumeric flags a numeric finding whose source data
	// could not be consulted.
	IssueUnverifiableNumeric IssueType = "unverifiable_numeric"

	// IssueChecklistFailure flags a regulatory checklist item not satisfied
	// by the report content.
	IssueChecklistFailure IssueType = "regulatory_checklist_failure"
)

// IsValid returns true if the issue type is recognised.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueMissingRequiredSection, IssueInsufficientContent,
		IssueInconsistentClaim, IssueClaimExceedsIndications,
		IssueClaimViolatesContraindications, IssueFactualError,
		IssueInvalidCitation, IssueCitationContentMismatch,
		IssueUnverifiableCitation, IssueUnverifiableNumeric,
		IssueChecklistFailure:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t IssueType) String() string {
	return string(t)
}

// Issue is a single validation finding.
type Issue struct {
	// Type classifies the finding.
	Type IssueType `json:"type"`

	// Severity grades the finding.
	Severity Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// SectionID locates the finding. Empty for document-level findings.
	SectionID string `json:"section_id,omitempty"`

	// RegulatoryRef cites the regulation clause behind the finding.
	RegulatoryRef string `json:"regulatory_ref,omitempty"`

	// Details carries finding-specific key-value context, such as the
	// authoritative value behind a factual error.
	Details map[string]string `json:"details,omitempty"`
}
