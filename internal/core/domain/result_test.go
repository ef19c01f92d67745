package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResult_Views tests the severity and type filtered views
func TestResult_Views(t *testing.T) {
	result := &Result{
		Issues: []Issue{
			{Type: IssueMissingRequiredSection, Severity: SeverityCritical, SectionID: "risk-benefit-analysis"},
			{Type: IssueFactualError, Severity: SeverityMajor, SectionID: "clinical-data"},
			{Type: IssueInvalidCitation, Severity: SeverityMajor, SectionID: "clinical-data"},
			{Type: IssueUnverifiableCitation, Severity: SeverityMinor, SectionID: "clinical-data"},
		},
	}

	critical := result.BySeverity(SeverityCritical)
	require.Len(t, critical, 1)
	assert.Equal(t, IssueMissingRequiredSection, critical[0].Type)

	factual := result.FactualErrors()
	require.Len(t, factual, 1)
	assert.Equal(t, SeverityMajor, factual[0].Severity)

	citations := result.CitationIssues()
	assert.Len(t, citations, 2)

	counts := result.Counts()
	assert.Equal(t, 1, counts[SeverityCritical])
	assert.Equal(t, 2, counts[SeverityMajor])
	assert.Equal(t, 1, counts[SeverityMinor])
	assert.Equal(t, 0, counts[SeveritySuggestion])
}

// TestIntendedUse_IsEmpty tests absence detection
func TestIntendedUse_IsEmpty(t *testing.T) {
	assert.True(t, IntendedUse{}.IsEmpty())
	assert.False(t, IntendedUse{Indications: "chronic heart failure"}.IsEmpty())
}

// TestNormalizeClaimText tests whitespace and case folding
func TestNormalizeClaimText(t *testing.T) {
	assert.Equal(t,
		"the device improves cardiac output",
		NormalizeClaimText("  The device\n improves   cardiac output "))
}
