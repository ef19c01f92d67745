package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure CompletenessChecker implements the interface.
var _ Checker = (*CompletenessChecker)(nil)

// DefaultMinSectionContent is the minimum trimmed content length before
// a present section counts as substantive.
const DefaultMinSectionContent = 50

// CompletenessChecker verifies that every section the framework mandates
// is present and carries substantive content.
type CompletenessChecker struct {
	minContent int
}

// NewCompletenessChecker creates a completeness checker. A non-positive
// minContent falls back to the default.
func NewCompletenessChecker(minContent int) *CompletenessChecker {
	if minContent <= 0 {
		minContent = DefaultMinSectionContent
	}
	return &CompletenessChecker{minContent: minContent}
}

// Name identifies the checker.
func (c *CompletenessChecker) Name() string { return "completeness" }

// Check walks the framework's required sections in registry order.
// A section is present when it matches by ID, type, or metadata hint.
// Missing sections raise issues at the registry's criticality; present
// sections with too little content raise major issues.
func (c *CompletenessChecker) Check(_ context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error) {
	var report CheckerReport

	for _, required := range reg.RequiredSections {
		section, ok := doc.SectionByKey(required.ID)
		if !ok {
			report.MissingSections = append(report.MissingSections, required.ID)
			report.Issues = append(report.Issues, domain.Issue{
				Type:          domain.IssueMissingRequiredSection,
				Severity:      required.Criticality,
				Message:       fmt.Sprintf("required section %q (%s) is missing", required.ID, required.Name),
				RegulatoryRef: required.RegulatoryRef,
				Details: map[string]string{
					"section": required.ID,
				},
			})
			continue
		}

		if length := len(strings.TrimSpace(section.Content)); length < c.minContent {
			report.Issues = append(report.Issues, domain.Issue{
				Type:          domain.IssueInsufficientContent,
				Severity:      domain.SeverityMajor,
				Message:       fmt.Sprintf("section %q has %d characters of content, expected at least %d", section.ID, length, c.minContent),
				SectionID:     section.ID,
				RegulatoryRef: required.RegulatoryRef,
				Details: map[string]string{
					"length":  fmt.Sprintf("%d", length),
					"minimum": fmt.Sprintf("%d", c.minContent),
				},
			})
		}
	}

	logger.Debug("Completeness: %d required sections, %d missing", len(reg.RequiredSections), len(report.MissingSections))
	return report, nil
}
