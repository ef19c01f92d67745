package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure CitationChecker implements the interface.
var _ Checker = (*CitationChecker)(nil)

// DefaultCitationWorkers bounds concurrent knowledge-base lookups.
const DefaultCitationWorkers = 4

// lowConfidence is the knowledge-base confidence below which a verdict
// is treated as unverifiable rather than authoritative.
const lowConfidence = 0.5

// CitationChecker verifies every citation against the knowledge base.
// Numeric in-text markers resolve through the reference list first.
type CitationChecker struct {
	extractor driven.CitationExtractor
	kb        driven.CitationKnowledgeBase
	workers   int
}

// NewCitationChecker creates a citation checker. A non-positive worker
// count falls back to the default.
func NewCitationChecker(extractor driven.CitationExtractor, kb driven.CitationKnowledgeBase, workers int) *CitationChecker {
	if workers <= 0 {
		workers = DefaultCitationWorkers
	}
	return &CitationChecker{
		extractor: extractor,
		kb:        kb,
		workers:   workers,
	}
}

// Name identifies the checker.
func (c *CitationChecker) Name() string { return "citations" }

// Check extracts citations, resolves numeric markers against the
// reference list, and verifies the resulting lookups concurrently.
// Verdicts are applied in extraction order so repeated runs agree.
func (c *CitationChecker) Check(ctx context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error) {
	citations, err := c.extractor.ExtractCitations(ctx, doc)
	if err != nil {
		return CheckerReport{}, fmt.Errorf("extract citations: %w", err)
	}

	var report CheckerReport
	jobs := c.resolveLookups(citations, &report)
	logger.Debug("Citations: %d occurrences, %d lookups, %d workers", len(citations), len(jobs), c.workers)

	verdicts := c.verifyAll(ctx, jobs)

	for i, job := range jobs {
		v := verdicts[i]
		switch {
		case errors.Is(v.err, context.DeadlineExceeded):
			report.Issues = append(report.Issues, citationIssue(domain.IssueUnverifiableCitation, domain.SeverityMinor, job,
				fmt.Sprintf("citation %q could not be verified in time", job.Raw), nil))
		case errors.Is(v.err, domain.ErrNotFound):
			report.Issues = append(report.Issues, invalidCitation(job))
		case v.err != nil:
			return CheckerReport{}, fmt.Errorf("verify citation %q: %w", job.Raw, v.err)
		case !v.record.Exists:
			report.Issues = append(report.Issues, invalidCitation(job))
		case v.record.ContentMismatch:
			report.Issues = append(report.Issues, citationIssue(domain.IssueCitationContentMismatch, domain.SeverityMajor, job,
				fmt.Sprintf("citation %q does not support the cited statement", job.Raw), map[string]string{
					"cited":  job.Context,
					"actual": v.record.ActualContent,
				}))
		case v.record.Confidence < lowConfidence:
			report.Issues = append(report.Issues, citationIssue(domain.IssueUnverifiableCitation, domain.SeverityMinor, job,
				fmt.Sprintf("citation %q matched with low confidence", job.Raw), nil))
		}
	}

	return report, nil
}

// resolveLookups turns citation occurrences into unique knowledge-base
// lookups. Markers without a reference entry are flagged immediately.
func (c *CitationChecker) resolveLookups(citations []domain.Citation, report *CheckerReport) []domain.Citation {
	references := make(map[string]domain.Citation)
	for _, citation := range citations {
		if citation.Format == domain.CitationReferenceList {
			if _, ok := references[citation.Key]; !ok && citation.Key != "" {
				references[citation.Key] = citation
			}
		}
	}

	var jobs []domain.Citation
	seen := make(map[string]bool)
	claimed := make(map[string]bool)

	for _, citation := range citations {
		switch citation.Format {
		case domain.CitationAuthorYear:
			if seen[citation.Key] {
				continue
			}
			seen[citation.Key] = true
			claimed[citation.Key] = true
			jobs = append(jobs, citation)

		case domain.CitationNumeric:
			if seen[citation.Key] {
				continue
			}
			seen[citation.Key] = true
			entry, ok := references[citation.Key]
			if !ok {
				report.Issues = append(report.Issues, citationIssue(domain.IssueInvalidCitation, domain.SeverityMajor, citation,
					fmt.Sprintf("marker %s has no reference-list entry", citation.Raw), nil))
				continue
			}
			claimed[citation.Key] = true
			// Verify the reference entry, located at the marker.
			job := entry
			job.SectionID = citation.SectionID
			job.Context = citation.Context
			jobs = append(jobs, job)
		}
	}

	for _, citation := range citations {
		if citation.Format != domain.CitationReferenceList {
			continue
		}
		lookupKey := citation.Key
		if lookupKey == "" {
			lookupKey = "raw:" + citation.Raw
		}
		if claimed[citation.Key] || seen[lookupKey] {
			continue
		}
		seen[lookupKey] = true
		jobs = append(jobs, citation)
	}

	return jobs
}

type citationVerdict struct {
	record domain.CitationRecord
	err    error
}

// verifyAll runs the lookups through a bounded worker pool. Results are
// indexed by job position to keep the outcome order-independent.
func (c *CitationChecker) verifyAll(ctx context.Context, jobs []domain.Citation) []citationVerdict {
	verdicts := make([]citationVerdict, len(jobs))
	sem := make(chan struct{}, c.workers)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job domain.Citation) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			record, err := c.kb.VerifyCitation(ctx, job)
			verdicts[i] = citationVerdict{record: record, err: err}
		}(i, job)
	}
	wg.Wait()

	return verdicts
}

func invalidCitation(citation domain.Citation) domain.Issue {
	return citationIssue(domain.IssueInvalidCitation, domain.SeverityMajor, citation,
		fmt.Sprintf("citation %q is not in the reference library", citation.Raw), nil)
}

func citationIssue(issueType domain.IssueType, severity domain.Severity, citation domain.Citation, message string, extra map[string]string) domain.Issue {
	details := map[string]string{
		"citation": citation.Raw,
		"key":      citation.Key,
		"format":   citation.Format.String(),
	}
	for k, v := range extra {
		details[k] = v
	}
	return domain.Issue{
		Type:      issueType,
		Severity:  severity,
		Message:   message,
		SectionID: citation.SectionID,
		Details:   details,
	}
}
