package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_Validate tests mandatory field validation
func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{
			name: "valid document",
			doc: Document{
				ID:        "cer-001",
				Framework: FrameworkEUMDR,
				Sections:  []Section{{ID: "exec-summary", Type: "executive-summary", Content: "Summary."}},
			},
			wantErr: false,
		},
		{
			name: "missing id",
			doc: Document{
				Framework: FrameworkEUMDR,
				Sections:  []Section{{ID: "exec-summary"}},
			},
			wantErr: true,
		},
		{
			name: "blank id",
			doc: Document{
				ID:        "   ",
				Framework: FrameworkEUMDR,
				Sections:  []Section{{ID: "exec-summary"}},
			},
			wantErr: true,
		},
		{
			name: "missing framework",
			doc: Document{
				ID:       "cer-001",
				Sections: []Section{{ID: "exec-summary"}},
			},
			wantErr: true,
		},
		{
			name: "no sections",
			doc: Document{
				ID:        "cer-001",
				Framework: FrameworkEUMDR,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestDocument_SectionByKey tests the ID, type, metadata matching order
func TestDocument_SectionByKey(t *testing.T) {
	doc := Document{
		ID:        "cer-001",
		Framework: FrameworkEUMDR,
		Sections: []Section{
			{ID: "s1", Type: "clinical-data", Title: "Clinical Data", Content: "Data."},
			{ID: "s2", Type: "narrative", Title: "Background", Content: "Background.",
				Metadata: map[string]any{"section": "state-of-the-art"}},
			{ID: "clinical-data", Type: "other", Title: "Oddly Named", Content: "Other."},
		},
	}

	// ID match wins over type match.
	s, ok := doc.SectionByKey("clinical-data")
	require.True(t, ok)
	assert.Equal(t, "clinical-data", s.ID)
	assert.Equal(t, "Oddly Named", s.Title)

	// Type match when no ID matches.
	s, ok = doc.SectionByKey("narrative")
	require.True(t, ok)
	assert.Equal(t, "s2", s.ID)

	// Metadata hint as last resort.
	s, ok = doc.SectionByKey("state-of-the-art")
	require.True(t, ok)
	assert.Equal(t, "s2", s.ID)

	// Case-insensitive.
	assert.True(t, doc.HasSection("CLINICAL-DATA"))

	_, ok = doc.SectionByKey("risk-benefit-analysis")
	assert.False(t, ok)
}

// TestDocument_SectionsByType tests type filtering in document order
func TestDocument_SectionsByType(t *testing.T) {
	doc := Document{
		Sections: []Section{
			{ID: "a", Type: "clinical-data"},
			{ID: "b", Type: "reference-list"},
			{ID: "c", Type: "clinical-data"},
		},
	}

	sections := doc.SectionsByType("clinical-data")
	require.Len(t, sections, 2)
	assert.Equal(t, "a", sections[0].ID)
	assert.Equal(t, "c", sections[1].ID)

	assert.Empty(t, doc.SectionsByType("appendix"))
}

// TestDocument_Clone tests deep copy independence
func TestDocument_Clone(t *testing.T) {
	original := &Document{
		ID:        "cer-001",
		Framework: FrameworkEUMDR,
		Sections: []Section{
			{ID: "s1", Type: "clinical-data", Content: "original content",
				Metadata: map[string]any{"section": "clinical-data"}},
		},
		Revisions: []RevisionEntry{{ID: "rev-1", Reviewer: "dr.chen"}},
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)

	clone.Sections[0].Content = "edited content"
	clone.Sections[0].Metadata["provenance"] = MetadataSectionProvenance
	clone.Revisions = append(clone.Revisions, RevisionEntry{ID: "rev-2"})

	assert.Equal(t, "original content", original.Sections[0].Content)
	assert.NotContains(t, original.Sections[0].Metadata, "provenance")
	assert.Len(t, original.Revisions, 1)
}

// TestSection_IsHumanAdded tests provenance detection
func TestSection_IsHumanAdded(t *testing.T) {
	drafted := Section{ID: "s1"}
	assert.False(t, drafted.IsHumanAdded())

	added := Section{ID: "s2", Metadata: map[string]any{"provenance": MetadataSectionProvenance}}
	assert.True(t, added.IsHumanAdded())
}
