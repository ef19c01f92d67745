package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure AccuracyChecker implements the interface.
var _ Checker = (*AccuracyChecker)(nil)

// DefaultSourceTolerance is the relative difference beyond which a
// sourced value counts as a factual error.
const DefaultSourceTolerance = 0.10

// ClinicalDataType is the section type scanned for numeric findings.
const ClinicalDataType = "clinical-data"

// AccuracyChecker verifies numeric findings against their cited sources
// and against the framework's plausibility ranges.
type AccuracyChecker struct {
	numeric   driven.NumericExtractor
	sources   driven.SourceDataLookup
	tolerance float64
}

// NewAccuracyChecker creates an accuracy checker. A non-positive
// tolerance falls back to the default.
func NewAccuracyChecker(numeric driven.NumericExtractor, sources driven.SourceDataLookup, tolerance float64) *AccuracyChecker {
	if tolerance <= 0 {
		tolerance = DefaultSourceTolerance
	}
	return &AccuracyChecker{
		numeric:   numeric,
		sources:   sources,
		tolerance: tolerance,
	}
}

// Name identifies the checker.
func (c *AccuracyChecker) Name() string { return "accuracy" }

// Check extracts numeric findings from the clinical-data sections.
// Findings attributed to a source are compared against the source value;
// the rest fall through to plausibility bounds. Lookup timeouts and
// unknown sources downgrade to unverifiable flags.
func (c *AccuracyChecker) Check(ctx context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error) {
	var report CheckerReport

	for _, section := range doc.SectionsByType(ClinicalDataType) {
		findings, err := c.numeric.ExtractFindings(ctx, *section)
		if err != nil {
			return CheckerReport{}, fmt.Errorf("extract findings from %q: %w", section.ID, err)
		}
		logger.Debug("Accuracy: %d findings in section %q", len(findings), section.ID)

		for _, finding := range findings {
			verified, err := c.checkSource(ctx, finding, &report)
			if err != nil {
				return CheckerReport{}, err
			}
			if verified {
				continue
			}
			c.checkPlausibility(finding, reg, &report)
		}
	}

	return report, nil
}

// checkSource compares a sourced finding against the knowledge library.
// It reports whether a source verdict was reached; unverifiable findings
// return false so plausibility bounds still apply.
func (c *AccuracyChecker) checkSource(ctx context.Context, finding domain.NumericFinding, report *CheckerReport) (bool, error) {
	if finding.SourceKey == "" || finding.Parameter == "" {
		return false, nil
	}

	source, err := c.sources.LookupValue(ctx, finding.SourceKey, finding.Parameter)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		report.Issues = append(report.Issues, unverifiableNumeric(finding, domain.SeverityMinor,
			fmt.Sprintf("source %q could not be consulted in time for %q", finding.SourceKey, finding.Parameter)))
		return false, nil
	case errors.Is(err, domain.ErrNotFound):
		report.Issues = append(report.Issues, unverifiableNumeric(finding, domain.SeveritySuggestion,
			fmt.Sprintf("source %q is not in the reference library", finding.SourceKey)))
		return false, nil
	case err != nil:
		return false, fmt.Errorf("look up %q in source %q: %w", finding.Parameter, finding.SourceKey, err)
	}

	if !strings.EqualFold(source.Unit, finding.Unit) {
		report.Issues = append(report.Issues, unverifiableNumeric(finding, domain.SeverityMinor,
			fmt.Sprintf("%q is reported in %s but source %q uses %s", finding.Parameter, finding.Unit, finding.SourceKey, source.Unit)))
		return false, nil
	}

	if relativeDiff(finding.Value, source.Value) > c.tolerance {
		report.Issues = append(report.Issues, domain.Issue{
			Type:      domain.IssueFactualError,
			Severity:  domain.SeverityCritical,
			SectionID: finding.SectionID,
			Message: fmt.Sprintf("%q is reported as %s but source %q states %s",
				finding.Parameter, formatValue(finding.Value, finding.Unit), finding.SourceKey, formatValue(source.Value, source.Unit)),
			Details: map[string]string{
				"parameter": finding.Parameter,
				"reported":  formatValue(finding.Value, finding.Unit),
				"expected":  formatValue(source.Value, source.Unit),
				"source":    finding.SourceKey,
			},
		})
	}
	return true, nil
}

// checkPlausibility flags findings outside the inclusive bounds of a
// matching range. Values exactly at a bound pass.
func (c *AccuracyChecker) checkPlausibility(finding domain.NumericFinding, reg *domain.Registry, report *CheckerReport) {
	bounds, ok := reg.RangeFor(finding.Parameter, finding.Unit)
	if !ok || bounds.Contains(finding.Value) {
		return
	}

	report.Issues = append(report.Issues, domain.Issue{
		Type:      domain.IssueFactualError,
		Severity:  domain.SeverityMajor,
		SectionID: finding.SectionID,
		Message: fmt.Sprintf("%q of %s is outside the plausible range %s to %s",
			finding.Parameter, formatValue(finding.Value, finding.Unit),
			formatValue(bounds.Min, bounds.Unit), formatValue(bounds.Max, bounds.Unit)),
		Details: map[string]string{
			"parameter": finding.Parameter,
			"reported":  formatValue(finding.Value, finding.Unit),
			"min":       formatValue(bounds.Min, bounds.Unit),
			"max":       formatValue(bounds.Max, bounds.Unit),
		},
	})
}

func unverifiableNumeric(finding domain.NumericFinding, severity domain.Severity, message string) domain.Issue {
	return domain.Issue{
		Type:      domain.IssueUnverifiableNumeric,
		Severity:  severity,
		Message:   message,
		SectionID: finding.SectionID,
		Details: map[string]string{
			"parameter": finding.Parameter,
			"reported":  formatValue(finding.Value, finding.Unit),
			"source":    finding.SourceKey,
		},
	}
}

// relativeDiff returns |a-b| relative to |b|, or the absolute difference
// when the reference value is zero.
func relativeDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	if b == 0 {
		return diff
	}
	return diff / math.Abs(b)
}

func formatValue(value float64, unit string) string {
	s := formatNumber(value)
	if unit == "" {
		return s
	}
	if unit == "%" {
		return s + "%"
	}
	return s + " " + unit
}

func formatNumber(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}
