package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// setupTestStore creates a temporary reference library for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "cerval-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// importTestLibrary loads a small curated set into the store.
func importTestLibrary(t *testing.T, store *Store) {
	t.Helper()

	count, err := store.Import(context.Background(), []knowledge.Reference{
		{
			Key:     "smith-2019",
			Title:   "Cardiac outcomes",
			Authors: "Smith J",
			Year:    2019,
			Summary: "Reports a mean resting heart rate of 72 bpm.",
			Values: []domain.SourceValue{
				{Parameter: "heart rate", Value: 72, Unit: "bpm"},
				{Parameter: "mortality rate", Value: 2.1, Unit: "%"},
			},
		},
		{
			Key:         "weber-2021",
			Title:       "Device safety",
			Summary:     "Reports no significant mortality difference.",
			Contradicts: []string{"reduces mortality"},
		},
		{
			Key:        "brandt-2024",
			Title:      "Early feasibility",
			Confidence: 0.4,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

// ==================== Store Creation Tests ====================

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "cerval-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "reference.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Reopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "cerval-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	importTestLibrary(t, store)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations or lose data.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

// ==================== Import Tests ====================

func TestStore_Import_Invalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Import(context.Background(), []knowledge.Reference{
		{Key: "a-2020", Title: "A"},
		{Key: "A-2020", Title: "B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_Import_Replace(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Import(ctx, []knowledge.Reference{
		{Key: "chen-2022", Title: "Glucose monitoring", Values: []domain.SourceValue{
			{Parameter: "blood glucose", Value: 95, Unit: "mg/dl"},
			{Parameter: "sensitivity", Value: 92.4, Unit: "%"},
		}},
	})
	require.NoError(t, err)

	// Reimport with one parameter dropped and one changed.
	_, err = store.Import(ctx, []knowledge.Reference{
		{Key: "chen-2022", Title: "Glucose monitoring", Values: []domain.SourceValue{
			{Parameter: "blood glucose", Value: 101, Unit: "mg/dl"},
		}},
	})
	require.NoError(t, err)

	lookup := store.SourceDataLookup()

	value, err := lookup.LookupValue(ctx, "chen-2022", "blood glucose")
	require.NoError(t, err)
	assert.Equal(t, 101.0, value.Value)

	// The dropped parameter must not linger.
	_, err = lookup.LookupValue(ctx, "chen-2022", "sensitivity")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// ==================== Source Data Lookup Tests ====================

func TestSourceLookup_LookupValue(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	lookup := store.SourceDataLookup()

	value, err := lookup.LookupValue(context.Background(), "Smith-2019", " Heart Rate ")
	require.NoError(t, err)
	assert.Equal(t, "heart rate", value.Parameter)
	assert.Equal(t, 72.0, value.Value)
	assert.Equal(t, "bpm", value.Unit)
}

func TestSourceLookup_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	lookup := store.SourceDataLookup()
	ctx := context.Background()

	_, err := lookup.LookupValue(ctx, "nguyen-2024", "heart rate")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = lookup.LookupValue(ctx, "smith-2019", "blood glucose")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Citation Knowledge Base Tests ====================

func TestCitationBase_VerifyCitation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	kb := store.CitationKnowledgeBase()

	record, err := kb.VerifyCitation(context.Background(), domain.Citation{
		Key:    "smith-2019",
		Format: domain.CitationAuthorYear,
	})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.Equal(t, 1.0, record.Confidence)
	assert.False(t, record.ContentMismatch)
}

func TestCitationBase_Unknown(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	kb := store.CitationKnowledgeBase()

	record, err := kb.VerifyCitation(context.Background(), domain.Citation{Key: "nguyen-2024"})
	require.NoError(t, err)
	assert.False(t, record.Exists)
}

func TestCitationBase_ContentMismatch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	kb := store.CitationKnowledgeBase()

	record, err := kb.VerifyCitation(context.Background(), domain.Citation{
		Key:     "weber-2021",
		Context: "The trial confirmed that the device reduces mortality.",
	})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.True(t, record.ContentMismatch)
	assert.Equal(t, "Reports no significant mortality difference.", record.ActualContent)
}

func TestCitationBase_LowConfidence(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	importTestLibrary(t, store)

	kb := store.CitationKnowledgeBase()

	record, err := kb.VerifyCitation(context.Background(), domain.Citation{Key: "brandt-2024"})
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.Equal(t, 0.4, record.Confidence)
}

func TestStore_SeedRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	count, err := store.Import(ctx, knowledge.Seed())
	require.NoError(t, err)
	require.Positive(t, count)

	value, err := store.SourceDataLookup().LookupValue(ctx, "smith-2019", "heart rate")
	require.NoError(t, err)
	assert.Equal(t, 72.0, value.Value)
}
