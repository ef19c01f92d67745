package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driving"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.ValidationService = (*Engine)(nil)

// Engine fans the checkers out over a document and merges their reports
// into one result.
type Engine struct {
	registries driven.RegistryProvider
	checkers   []Checker
}

// NewEngine creates a validation engine. Checker order is the merge
// order within a severity tier, so callers pass completeness first.
func NewEngine(registries driven.RegistryProvider, checkers ...Checker) *Engine {
	return &Engine{
		registries: registries,
		checkers:   checkers,
	}
}

// Validate runs every checker concurrently and aggregates the outcome.
// A checker failure aborts the whole run; partial results are never
// returned. Validating an unmodified document twice yields deep-equal
// results.
func (e *Engine) Validate(ctx context.Context, doc *domain.Document, framework domain.Framework) (*domain.Result, error) {
	logger.Section("Validation Run")

	// 1. Reject malformed documents outright
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	// 2. Resolve the framework registry; an unsupported framework is an
	// explicit error, never a silent pass
	if framework == "" {
		framework = doc.Framework
	}
	reg, err := e.registries.Registry(framework)
	if err != nil {
		return nil, fmt.Errorf("resolve framework %q: %w", framework, err)
	}
	logger.Debug("Validating %q against %s with %d checkers", doc.ID, framework, len(e.checkers))

	// 3. Fan out the checkers; none of them share mutable state
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reports := make([]CheckerReport, len(e.checkers))
	errs := make([]error, len(e.checkers))

	var wg sync.WaitGroup
	for i, checker := range e.checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()
			report, err := checker.Check(ctx, doc, reg)
			if err != nil {
				errs[i] = fmt.Errorf("%s checker: %w", checker.Name(), err)
				// Fail fast: stop sibling lookups still in flight.
				cancel()
				return
			}
			reports[i] = report
		}(i, checker)
	}
	wg.Wait()

	if err := firstCheckerError(errs); err != nil {
		logger.Warn("Validation aborted: %v", err)
		return nil, errors.Join(domain.ErrEngineFailure, err)
	}

	// 4. Merge deterministically and derive the completeness flag
	result := mergeReports(reports)
	result.Complete = len(result.BySeverity(domain.SeverityCritical)) == 0 &&
		len(result.MissingSections) == 0 &&
		result.Checklist.Failed == 0

	logger.Info("Validation of %q: complete=%v, %d issues", doc.ID, result.Complete, len(result.Issues))
	return result, nil
}

// firstCheckerError picks the root failure in checker order, skipping
// cancellation fallout from the fail-fast path.
func firstCheckerError(errs []error) error {
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if fallback == nil {
			fallback = err
		}
	}
	return fallback
}

// mergeReports flattens checker reports into a result. Issues are
// ordered by severity tier, then checker order, then discovery order.
func mergeReports(reports []CheckerReport) *domain.Result {
	result := &domain.Result{Issues: []domain.Issue{}}

	for _, severity := range []domain.Severity{
		domain.SeverityCritical,
		domain.SeverityMajor,
		domain.SeverityMinor,
		domain.SeveritySuggestion,
	} {
		for _, report := range reports {
			for _, issue := range report.Issues {
				if issue.Severity == severity {
					result.Issues = append(result.Issues, issue)
				}
			}
		}
	}

	for _, report := range reports {
		result.MissingSections = append(result.MissingSections, report.MissingSections...)
		result.InconsistentClaims = append(result.InconsistentClaims, report.Conflicts...)
		if report.Checklist != nil {
			result.Checklist = *report.Checklist
		}
	}

	return result
}
