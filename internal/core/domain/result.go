package domain

// Result is the aggregated outcome of one validation run.
//
// A Result carries no timestamp or run identifier: validating the same
// document against the same framework and collaborator state must produce
// an identical Result.
type Result struct {
	// Complete is true only when no critical issues were found, no
	// required sections are missing, and every checklist item passed.
	Complete bool `json:"complete"`

	// Issues holds every finding, ordered by severity tier and, within
	// a tier, by discovery order.
	Issues []Issue `json:"issues"`

	// MissingSections lists the required-section IDs absent from the
	// document, in registry order.
	MissingSections []string `json:"missing_sections,omitempty"`

	// InconsistentClaims pairs the mutually contradictory claims found.
	InconsistentClaims []ClaimConflict `json:"inconsistent_claims,omitempty"`

	// Checklist summarises the regulatory checklist evaluation.
	Checklist ChecklistSummary `json:"checklist"`
}

// BySeverity returns the issues in the given severity tier, in order.
func (r *Result) BySeverity(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// ByType returns the issues of the given type, in order.
func (r *Result) ByType(t IssueType) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}

// FactualErrors returns the factual accuracy findings.
func (r *Result) FactualErrors() []Issue {
	return r.ByType(IssueFactualError)
}

// CitationIssues returns every citation-related finding.
func (r *Result) CitationIssues() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		switch issue.Type {
		case IssueInvalidCitation, IssueCitationContentMismatch, IssueUnverifiableCitation:
			out = append(out, issue)
		}
	}
	return out
}

// Counts returns the number of issues per severity tier.
func (r *Result) Counts() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}
