package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

func consistencyRegistry() *domain.Registry {
	return &domain.Registry{
		Framework: domain.FrameworkEUMDR,
		AntonymPairs: []domain.AntonymPair{
			{Term: "reduces", Negation: "does not reduce"},
			{Term: "safe", Negation: "unsafe"},
			{Term: "effective", Negation: "ineffective"},
		},
		OverreachTerms: []string{"guaranteed", "cures all", "100% effective"},
	}
}

func consistencyDoc() *domain.Document {
	return &domain.Document{
		ID:        "cer-001",
		Framework: domain.FrameworkEUMDR,
		Sections: []domain.Section{
			{ID: "benefits", Type: "clinical-data", Content: "..."},
			{ID: "conclusion", Type: "conclusion", Content: "..."},
		},
	}
}

// TestConsistencyChecker_Check_ContradictoryClaims tests that claims
// using opposite members of an antonym pair raise one conflict.
func TestConsistencyChecker_Check_ContradictoryClaims(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits":   {{Text: "the device reduces recovery time", SectionID: "benefits"}},
		"conclusion": {{Text: "the device does not reduce recovery time", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	require.Len(t, report.Issues, 1)

	conflict := report.Conflicts[0]
	assert.Equal(t, "benefits", conflict.First.SectionID)
	assert.Equal(t, "conclusion", conflict.Second.SectionID)
	assert.Equal(t, `"reduces" vs "does not reduce"`, conflict.Reason)

	issue := report.Issues[0]
	assert.Equal(t, domain.IssueInconsistentClaim, issue.Type)
	assert.Equal(t, domain.SeverityMajor, issue.Severity)
	assert.Equal(t, "benefits", issue.Details["first_section"])
	assert.Equal(t, "conclusion", issue.Details["second_section"])
}

// TestConsistencyChecker_Check_NegatedBothWays tests that the conflict is
// found regardless of which claim carries the negation.
func TestConsistencyChecker_Check_NegatedBothWays(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits":   {{Text: "the device does not reduce recovery time", SectionID: "benefits"}},
		"conclusion": {{Text: "the device reduces recovery time", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, `"does not reduce" vs "reduces"`, report.Conflicts[0].Reason)
}

// TestConsistencyChecker_Check_PairReportedOnce tests that a claim pair
// tripping several antonym pairs is still reported once.
func TestConsistencyChecker_Check_PairReportedOnce(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits":   {{Text: "the device is safe and effective", SectionID: "benefits"}},
		"conclusion": {{Text: "the device is unsafe and ineffective", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	assert.Len(t, report.Conflicts, 1)
	assert.Len(t, report.Issues, 1)
}

// TestConsistencyChecker_Check_EmbeddedAntonym tests that an antonym
// containing its counterpart as a substring does not self-conflict.
func TestConsistencyChecker_Check_EmbeddedAntonym(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits":   {{Text: "treatment was ineffective in the control arm", SectionID: "benefits"}},
		"conclusion": {{Text: "treatment was ineffective overall", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, report.Issues)
}

// TestConsistencyChecker_Check_Overreach tests that promotional phrasing
// beyond any indication raises a critical issue.
func TestConsistencyChecker_Check_Overreach(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"conclusion": {{Text: "the device is guaranteed to relieve symptoms and cures all forms of arthritis", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	require.Len(t, report.Issues, 1)

	issue := report.Issues[0]
	assert.Equal(t, domain.IssueClaimExceedsIndications, issue.Type)
	assert.Equal(t, domain.SeverityCritical, issue.Severity)
	assert.Equal(t, "conclusion", issue.SectionID)
	assert.Equal(t, "guaranteed", issue.Details["term"])
}

// TestConsistencyChecker_Check_Contraindication tests that a claim naming
// a declared contraindication raises a critical issue.
func TestConsistencyChecker_Check_Contraindication(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits": {{Text: "it is well tolerated by patients with implanted pacemakers", SectionID: "benefits"}},
	}}
	intendedUse := &mockIntendedUseExtractor{use: domain.IntendedUse{
		Indications:       "chronic lower back pain",
		Contraindications: "Patients with implanted pacemakers, pregnant women",
	}}
	checker := NewConsistencyChecker(claims, intendedUse)

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	require.Len(t, report.Issues, 1)

	issue := report.Issues[0]
	assert.Equal(t, domain.IssueClaimViolatesContraindications, issue.Type)
	assert.Equal(t, domain.SeverityCritical, issue.Severity)
	assert.Equal(t, "implanted pacemakers", issue.Details["contraindication"])
}

// TestConsistencyChecker_Check_ConsistentClaims tests that agreeing
// claims raise nothing.
func TestConsistencyChecker_Check_ConsistentClaims(t *testing.T) {
	claims := &mockClaimExtractor{claims: map[string][]domain.Claim{
		"benefits":   {{Text: "the device reduces recovery time", SectionID: "benefits"}},
		"conclusion": {{Text: "recovery time was shorter in the treatment arm", SectionID: "conclusion"}},
	}}
	checker := NewConsistencyChecker(claims, &mockIntendedUseExtractor{})

	report, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())

	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, report.Issues)
}

// TestConsistencyChecker_Check_ExtractorError tests that extraction
// failures abort the check.
func TestConsistencyChecker_Check_ExtractorError(t *testing.T) {
	claimErr := errors.New("claim extraction broke")
	checker := NewConsistencyChecker(&mockClaimExtractor{err: claimErr}, &mockIntendedUseExtractor{})

	_, err := checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())
	require.ErrorIs(t, err, claimErr)

	useErr := errors.New("intended use extraction broke")
	checker = NewConsistencyChecker(&mockClaimExtractor{}, &mockIntendedUseExtractor{err: useErr})

	_, err = checker.Check(context.Background(), consistencyDoc(), consistencyRegistry())
	require.ErrorIs(t, err, useErr)
}
