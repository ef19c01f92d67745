package services

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// CheckerReport is the output of one checker run. A checker populates
// only the fields it owns; the engine merges reports into the result.
type CheckerReport struct {
	// Issues holds the checker's findings in discovery order.
	Issues []domain.Issue

	// MissingSections lists absent required-section IDs. Completeness only.
	MissingSections []string

	// Conflicts pairs contradictory claims. Consistency only.
	Conflicts []domain.ClaimConflict

	// Checklist is the checklist evaluation. Checklist only.
	Checklist *domain.ChecklistSummary
}

// Checker runs one validation dimension over a document.
type Checker interface {
	// Name identifies the checker in logs and engine failures.
	Name() string

	// Check inspects the document under the framework registry.
	// The registry is shared and read-only; the document must not
	// be modified.
	Check(ctx context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error)
}
