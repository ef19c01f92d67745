package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driving"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// referenceListType tags the section holding bibliography entries.
const referenceListType = "reference-list"

// Ensure FeedbackIntegrator implements the interface.
var _ driving.FeedbackService = (*FeedbackIntegrator)(nil)

// FeedbackIntegrator applies reviewer corrections to a document copy.
// The input document is never mutated.
type FeedbackIntegrator struct{}

// NewFeedbackIntegrator creates a feedback integrator.
func NewFeedbackIntegrator() *FeedbackIntegrator {
	return &FeedbackIntegrator{}
}

// Apply integrates a feedback batch into a copy of the document and
// records the intervention as one revision entry. Items that cannot be
// applied are skipped with a warning; the batch never fails as a whole.
func (f *FeedbackIntegrator) Apply(ctx context.Context, doc *domain.Document, result *domain.Result, feedback domain.FeedbackBatch, reviewer string) (*domain.Document, error) {
	logger.Section("Feedback Integration")

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	if result != nil {
		logger.Debug("Integrating %d feedback items against a result with %d issues", len(feedback), len(result.Issues))
	}

	updated := doc.Clone()
	applied := 0
	for _, item := range feedback {
		switch item := item.(type) {
		case domain.TextCorrection:
			if f.applyText(updated, item) {
				applied++
			}
		case domain.SectionAddition:
			if f.applySection(updated, item, reviewer) {
				applied++
			}
		case domain.CitationCorrection:
			if f.applyCitation(updated, item) {
				applied++
			}
		case domain.DataCorrection:
			if f.applyData(updated, item) {
				applied++
			}
		case domain.UnknownFeedback:
			logger.Warn("Unknown feedback kind %q, skipping", item.RawKind)
		default:
			logger.Warn("Unhandled feedback item %T, skipping", item)
		}
	}

	updated.Revisions = append(updated.Revisions, domain.RevisionEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Reviewer:  reviewer,
		Changes:   applied,
		Summary:   fmt.Sprintf("applied %d of %d corrections", applied, len(feedback)),
	})

	logger.Info("Applied %d of %d feedback items to %q", applied, len(feedback), doc.ID)
	return updated, nil
}

func (f *FeedbackIntegrator) applyText(doc *domain.Document, item domain.TextCorrection) bool {
	section, ok := doc.SectionByID(item.SectionID)
	if !ok {
		logger.Warn("Text correction targets unknown section %q, skipping", item.SectionID)
		return false
	}
	if item.Old == "" || !strings.Contains(section.Content, item.Old) {
		logger.Warn("Text %q not found in section %q, skipping correction", truncate(item.Old, 40), item.SectionID)
		return false
	}
	section.Content = strings.ReplaceAll(section.Content, item.Old, item.New)
	return true
}

func (f *FeedbackIntegrator) applySection(doc *domain.Document, item domain.SectionAddition, reviewer string) bool {
	if strings.TrimSpace(item.Section.ID) == "" {
		logger.Warn("Section addition without an ID, skipping")
		return false
	}
	if _, exists := doc.SectionByID(item.Section.ID); exists {
		logger.Warn("Section %q already exists, skipping addition", item.Section.ID)
		return false
	}

	section := item.Section
	meta := make(map[string]any, len(section.Metadata)+2)
	for k, v := range section.Metadata {
		meta[k] = v
	}
	meta["provenance"] = domain.MetadataSectionProvenance
	if reviewer != "" {
		meta["reviewer"] = reviewer
	}
	section.Metadata = meta

	doc.Sections = append(doc.Sections, section)
	return true
}

func (f *FeedbackIntegrator) applyCitation(doc *domain.Document, item domain.CitationCorrection) bool {
	if item.Old == "" && item.Reference == "" {
		logger.Warn("Citation correction for %q carries no changes, skipping", item.Key)
		return false
	}

	replaced := false
	if item.Old != "" {
		for i := range doc.Sections {
			if doc.Sections[i].Type == referenceListType {
				continue
			}
			if strings.Contains(doc.Sections[i].Content, item.Old) {
				doc.Sections[i].Content = strings.ReplaceAll(doc.Sections[i].Content, item.Old, item.New)
				replaced = true
			}
		}
	}
	if item.Reference != "" && f.replaceReferenceEntry(doc, item) {
		replaced = true
	}

	if !replaced {
		logger.Warn("Citation %q not found in any section, skipping correction", item.Key)
	}
	return replaced
}

// replaceReferenceEntry rewrites the bibliography line matching the
// corrected key, or appends the entry when no line matches.
func (f *FeedbackIntegrator) replaceReferenceEntry(doc *domain.Document, item domain.CitationCorrection) bool {
	section, ok := doc.FirstSectionOfType(referenceListType)
	if !ok {
		logger.Warn("No reference list section for citation %q, skipping reference update", item.Key)
		return false
	}

	lines := strings.Split(section.Content, "\n")
	for i, line := range lines {
		if referenceLineMatches(line, item.Key) {
			lines[i] = item.Reference
			section.Content = strings.Join(lines, "\n")
			return true
		}
	}

	section.Content = strings.TrimRight(section.Content, "\n") + "\n" + item.Reference
	return true
}

// referenceLineMatches reports whether a bibliography line covers every
// part of an author-year key, e.g. both "smith" and "2020" for "smith-2020".
func referenceLineMatches(line, key string) bool {
	if key == "" || strings.TrimSpace(line) == "" {
		return false
	}
	lower := strings.ToLower(line)
	for _, part := range strings.Split(strings.ToLower(key), "-") {
		if part == "" {
			continue
		}
		if !strings.Contains(lower, part) {
			return false
		}
	}
	return true
}

func (f *FeedbackIntegrator) applyData(doc *domain.Document, item domain.DataCorrection) bool {
	if item.Old == "" {
		logger.Warn("Data correction without an original value, skipping")
		return false
	}

	if item.SectionID != "" {
		section, ok := doc.SectionByID(item.SectionID)
		if !ok {
			logger.Warn("Data correction targets unknown section %q, skipping", item.SectionID)
			return false
		}
		if !strings.Contains(section.Content, item.Old) {
			logger.Warn("Value %q not found in section %q, skipping correction", item.Old, item.SectionID)
			return false
		}
		section.Content = strings.ReplaceAll(section.Content, item.Old, item.New)
		return true
	}

	replaced := false
	for i := range doc.Sections {
		if strings.Contains(doc.Sections[i].Content, item.Old) {
			doc.Sections[i].Content = strings.ReplaceAll(doc.Sections[i].Content, item.Old, item.New)
			replaced = true
		}
	}
	if !replaced {
		logger.Warn("Value %q not found in any section, skipping correction", item.Old)
	}
	return replaced
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
