package driving

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// FeedbackService applies reviewer corrections to validated reports.
type FeedbackService interface {
	// Apply integrates a feedback batch into a copy of the document and
	// appends one revision entry. The input document is never modified.
	Apply(ctx context.Context, doc *domain.Document, result *domain.Result,
		feedback domain.FeedbackBatch, reviewer string) (*domain.Document, error)
}
