package driving

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// ValidationService validates clinical evaluation reports against a
// regulatory framework.
type ValidationService interface {
	// Validate runs every checker over the document and aggregates the
	// outcome. Validating the same document twice yields identical results.
	Validate(ctx context.Context, doc *domain.Document, framework domain.Framework) (*domain.Result, error)
}
