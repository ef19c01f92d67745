package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/memory"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/resilient"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/services"
	"github.com/cerval-labs/cerval-cli/internal/extractors/pattern"
	"github.com/cerval-labs/cerval-cli/internal/frameworks"
)

// setupTestServices wires the commands to a real engine over the seeded
// in-memory library and returns a cleanup restoring the prior wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	provider, err := frameworks.NewProvider()
	require.NoError(t, err)
	lib := memory.NewSeededLibrary()
	guarded := resilient.New(lib, lib, resilient.Config{})

	oldValidation := validationService
	oldFeedback := feedbackService
	oldRegistries := registryProvider
	oldConfig := configStore

	registryProvider = provider
	validationService = services.NewEngine(provider,
		services.NewCompletenessChecker(services.DefaultMinSectionContent),
		services.NewConsistencyChecker(pattern.NewClaimExtractor(), pattern.NewIntendedUseExtractor()),
		services.NewAccuracyChecker(pattern.NewNumericExtractor(), guarded, services.DefaultSourceTolerance),
		services.NewCitationChecker(pattern.NewCitationExtractor(), guarded, services.DefaultCitationWorkers),
		services.NewChecklistChecker(services.DefaultChecklistPassRatio),
	)
	feedbackService = services.NewFeedbackIntegrator()

	return func() {
		validationService = oldValidation
		feedbackService = oldFeedback
		registryProvider = oldRegistries
		configStore = oldConfig
	}
}

// completeDocument builds a report that satisfies every EU MDR rule:
// all required sections present with substantive content addressing the
// checklist, no claims, no numbers, no citations.
func completeDocument() *domain.Document {
	section := func(id, content string) domain.Section {
		return domain.Section{ID: id, Type: id, Title: id, Content: content}
	}
	return &domain.Document{
		ID:        "cer-cli-001",
		Framework: domain.FrameworkEUMDR,
		Sections: []domain.Section{
			section("executive-summary",
				"This clinical evaluation summarises the device performance and safety evidence gathered for the current reporting period."),
			section("device-description",
				"The monitor is a wrist-worn sensor assembly with adhesive mounting and a reusable electronics module for home use."),
			section("intended-purpose",
				"The device is intended for continuous cardiac monitoring of adult patients in home care settings under clinician supervision."),
			section("clinical-background",
				"The state of the art was established, including available alternative treatment options and current practice guidelines."),
			section("equivalence-analysis",
				"The equivalence demonstration addresses the clinical, technical and biological characteristics of the comparator device."),
			section("literature-review",
				"The literature search covered the databases searched, the selection criteria and the appraisal methodology; we also state the screening rationale in full."),
			section("clinical-data",
				"Undesirable side-effects and complication rates were quantified across the pivotal cohort and judged acceptable by the evaluators."),
			section("risk-benefit-analysis",
				"The risk-benefit determination declares the residual risks acceptable against the intended clinical benefits."),
			section("post-market-surveillance",
				"Post-market surveillance activities and the PMCF plan feeding the next evaluation are described for the coming period."),
			section("conclusion",
				"The clinical evidence supports the intended purpose, and the evaluation will be repeated on the surveillance schedule."),
			section("reference-list",
				"No external literature is restated here; the appraised sources are catalogued in the evaluation file."),
		},
	}
}

// writeDocument marshals a document into a temp file and returns its path.
func writeDocument(t *testing.T, doc *domain.Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "document.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// dropSection returns the document without the named section.
func dropSection(doc *domain.Document, id string) *domain.Document {
	out := doc.Clone()
	out.Sections = out.Sections[:0]
	for _, s := range doc.Sections {
		if s.ID != id {
			out.Sections = append(out.Sections, s)
		}
	}
	return out
}
