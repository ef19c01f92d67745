package docfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, "doc.json", `{
		"id": "cer-001",
		"framework": "eu-mdr",
		"sections": [
			{"id": "scope", "type": "device-description", "title": "Scope", "content": "The device."}
		]
	}`)

	doc, err := LoadDocument(path)

	require.NoError(t, err)
	assert.Equal(t, "cer-001", doc.ID)
	assert.Equal(t, domain.FrameworkEUMDR, doc.Framework)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "device-description", doc.Sections[0].Type)
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadDocument_MalformedJSON(t *testing.T) {
	path := writeFile(t, "doc.json", `{"id": `)

	_, err := LoadDocument(path)

	assert.Error(t, err)
}

func TestLoadDocument_RejectsInvalidDocument(t *testing.T) {
	// No sections: mandatory fields are checked at load time.
	path := writeFile(t, "doc.json", `{"id": "cer-001", "framework": "eu-mdr", "sections": []}`)

	_, err := LoadDocument(path)

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	doc := &domain.Document{
		ID:        "cer-002",
		Framework: domain.FrameworkEUMDR,
		Sections: []domain.Section{
			{ID: "s1", Type: "clinical-data", Title: "Data", Content: "HbA1c fell by 1.2 %."},
		},
	}
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, SaveDocument(path, doc))
	loaded, err := LoadDocument(path)

	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestSaveDocument_RejectsInvalidDocument(t *testing.T) {
	err := SaveDocument(filepath.Join(t.TempDir(), "out.json"), &domain.Document{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestLoadFeedback(t *testing.T) {
	path := writeFile(t, "feedback.json", `[
		{"kind": "text_correction", "section_id": "s1", "old_text": "650 mg/dl", "new_text": "150 mg/dl"},
		{"kind": "annotation", "note": "check later"}
	]`)

	batch, err := LoadFeedback(path)

	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, domain.FeedbackTextCorrection, batch[0].Kind())

	// Unknown kinds are preserved, not rejected.
	unknown, ok := batch[1].(domain.UnknownFeedback)
	require.True(t, ok)
	assert.Equal(t, "annotation", unknown.RawKind)
}

func TestLoadFeedback_MissingKind(t *testing.T) {
	path := writeFile(t, "feedback.json", `[{"section_id": "s1"}]`)

	_, err := LoadFeedback(path)

	assert.ErrorIs(t, err, domain.ErrInvalidFeedback)
}

func TestSaveResult_RoundTrip(t *testing.T) {
	result := &domain.Result{
		Complete: false,
		Issues: []domain.Issue{
			{
				Type:     domain.IssueMissingRequiredSection,
				Severity: domain.SeverityCritical,
				Message:  "required section missing",
			},
		},
		MissingSections: []string{"risk-benefit-analysis"},
		Checklist:       domain.ChecklistSummary{Total: 1, Failed: 1},
	}
	path := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, SaveResult(path, result))
	loaded, err := LoadResult(path)

	require.NoError(t, err)
	assert.Equal(t, result, loaded)
}
