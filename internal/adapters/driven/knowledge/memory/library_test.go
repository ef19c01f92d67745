package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

func testLibrary() *Library {
	return NewLibrary(
		knowledge.Reference{
			Key:     "smith-2019",
			Title:   "Cardiac outcomes",
			Summary: "Reports a mean resting heart rate of 72 bpm.",
			Values: []domain.SourceValue{
				{Parameter: "heart rate", Value: 72, Unit: "bpm"},
				{Parameter: "mortality rate", Value: 2.1, Unit: "%"},
			},
		},
		knowledge.Reference{
			Key:         "weber-2021",
			Title:       "Device safety",
			Summary:     "Reports no significant mortality difference.",
			Contradicts: []string{"reduces mortality"},
		},
		knowledge.Reference{
			Key:        "brandt-2024",
			Title:      "Early feasibility",
			Confidence: 0.4,
		},
	)
}

// TestLibrary_LookupValue tests source value resolution.
func TestLibrary_LookupValue(t *testing.T) {
	lib := testLibrary()
	ctx := context.Background()

	value, err := lib.LookupValue(ctx, "smith-2019", "heart rate")
	require.NoError(t, err)
	assert.Equal(t, 72.0, value.Value)
	assert.Equal(t, "bpm", value.Unit)
}

// TestLibrary_LookupValue_CaseInsensitive tests key and parameter folding.
func TestLibrary_LookupValue_CaseInsensitive(t *testing.T) {
	lib := testLibrary()

	value, err := lib.LookupValue(context.Background(), "Smith-2019", " Heart Rate ")
	require.NoError(t, err)
	assert.Equal(t, 72.0, value.Value)
}

// TestLibrary_LookupValue_NotFound tests unknown sources and parameters.
func TestLibrary_LookupValue_NotFound(t *testing.T) {
	lib := testLibrary()
	ctx := context.Background()

	_, err := lib.LookupValue(ctx, "nguyen-2024", "heart rate")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = lib.LookupValue(ctx, "smith-2019", "blood glucose")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestLibrary_VerifyCitation tests a known citation.
func TestLibrary_VerifyCitation(t *testing.T) {
	lib := testLibrary()

	record, err := lib.VerifyCitation(context.Background(), domain.Citation{
		Key:    "smith-2019",
		Format: domain.CitationAuthorYear,
	})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.Equal(t, 1.0, record.Confidence)
	assert.False(t, record.ContentMismatch)
}

// TestLibrary_VerifyCitation_Unknown tests the negative verdict.
func TestLibrary_VerifyCitation_Unknown(t *testing.T) {
	lib := testLibrary()

	record, err := lib.VerifyCitation(context.Background(), domain.Citation{Key: "nguyen-2024"})
	require.NoError(t, err)
	assert.False(t, record.Exists)
	assert.Equal(t, 1.0, record.Confidence)
}

// TestLibrary_VerifyCitation_ContentMismatch tests contradicted claims.
func TestLibrary_VerifyCitation_ContentMismatch(t *testing.T) {
	lib := testLibrary()

	record, err := lib.VerifyCitation(context.Background(), domain.Citation{
		Key:     "weber-2021",
		Context: "The study demonstrated that the device reduces mortality in all cohorts.",
	})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.True(t, record.ContentMismatch)
	assert.Equal(t, "Reports no significant mortality difference.", record.ActualContent)

	// The same citation without a contradicted claim verifies cleanly.
	record, err = lib.VerifyCitation(context.Background(), domain.Citation{
		Key:     "weber-2021",
		Context: "Complication rates were consistent with prior reports.",
	})
	require.NoError(t, err)
	assert.False(t, record.ContentMismatch)
}

// TestLibrary_VerifyCitation_LowConfidence tests curator confidence passthrough.
func TestLibrary_VerifyCitation_LowConfidence(t *testing.T) {
	lib := testLibrary()

	record, err := lib.VerifyCitation(context.Background(), domain.Citation{Key: "brandt-2024"})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.Equal(t, 0.4, record.Confidence)
}

// TestLibrary_Import tests replacing and counting entries.
func TestLibrary_Import(t *testing.T) {
	lib := NewLibrary()
	assert.Equal(t, 0, lib.Len())

	count := lib.Import([]knowledge.Reference{
		{Key: "chen-2022", Title: "Glucose monitoring", Values: []domain.SourceValue{
			{Parameter: "blood glucose", Value: 95, Unit: "mg/dl"},
		}},
		{Key: ""},
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, lib.Len())

	// Re-import replaces the entry.
	count = lib.Import([]knowledge.Reference{
		{Key: "chen-2022", Title: "Glucose monitoring", Values: []domain.SourceValue{
			{Parameter: "blood glucose", Value: 101, Unit: "mg/dl"},
		}},
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, lib.Len())

	value, err := lib.LookupValue(context.Background(), "chen-2022", "blood glucose")
	require.NoError(t, err)
	assert.Equal(t, 101.0, value.Value)
}

// TestNewSeededLibrary tests the starter set wiring.
func TestNewSeededLibrary(t *testing.T) {
	lib := NewSeededLibrary()
	require.Positive(t, lib.Len())

	value, err := lib.LookupValue(context.Background(), "smith-2019", "heart rate")
	require.NoError(t, err)
	assert.Equal(t, 72.0, value.Value)
}
