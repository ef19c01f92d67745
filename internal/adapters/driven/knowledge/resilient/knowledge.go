// Package resilient decorates knowledge backends with per-lookup
// timeouts and bounded retries.
//
// Transient backend failures are retried with exponential backoff.
// Definitive verdicts (a source that is not in the library) and
// expired deadlines are never retried: the first tells the checker
// what it needs to know, the second is already the checker's signal
// to downgrade the finding to unverifiable.
package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure Knowledge implements the knowledge ports.
var (
	_ driven.SourceDataLookup      = (*Knowledge)(nil)
	_ driven.CitationKnowledgeBase = (*Knowledge)(nil)
)

// Default resilience settings.
const (
	DefaultLookupTimeout = 5 * time.Second
	DefaultMaxAttempts   = 2
	DefaultInitialDelay  = 200 * time.Millisecond
)

// Config holds the shared resilience policy.
type Config struct {
	// LookupTimeout bounds each lookup, retries included (default: 5s).
	LookupTimeout time.Duration

	// MaxAttempts is the attempt budget per lookup (default: 2).
	MaxAttempts int

	// InitialDelay is the delay before the first retry (default: 200ms).
	InitialDelay time.Duration
}

// Knowledge wraps a source data lookup and a citation knowledge base
// with the same resilience policy.
type Knowledge struct {
	sources driven.SourceDataLookup
	kb      driven.CitationKnowledgeBase
	cfg     Config
}

// New creates a resilient decorator around the given backends.
func New(sources driven.SourceDataLookup, kb driven.CitationKnowledgeBase, cfg Config) *Knowledge {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultInitialDelay
	}
	return &Knowledge{
		sources: sources,
		kb:      kb,
		cfg:     cfg,
	}
}

// LookupValue resolves a source value under the resilience policy.
func (k *Knowledge) LookupValue(ctx context.Context, sourceKey, parameter string) (domain.SourceValue, error) {
	return execute(ctx, k.cfg, func(ctx context.Context) (domain.SourceValue, error) {
		return k.sources.LookupValue(ctx, sourceKey, parameter)
	})
}

// VerifyCitation verifies a citation under the resilience policy.
func (k *Knowledge) VerifyCitation(ctx context.Context, citation domain.Citation) (domain.CitationRecord, error) {
	return execute(ctx, k.cfg, func(ctx context.Context) (domain.CitationRecord, error) {
		return k.kb.VerifyCitation(ctx, citation)
	})
}

// execute runs one lookup with the configured timeout and retry policy.
// Non-retryable errors pass through with their identity intact so
// checkers can match them with errors.Is.
func execute[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	r := retry.New[T](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	t := timeout.New[T](timeout.Config{
		DefaultTimeout: cfg.LookupTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.LookupTimeout)
	defer cancel()

	value, err := t.Execute(ctx, cfg.LookupTimeout, func(ctx context.Context) (T, error) {
		var permanent error
		value, err := r.Do(ctx, func(ctx context.Context) (T, error) {
			value, err := fn(ctx)
			if err != nil && !retryable(err) {
				// Returning nil stops the retry loop; the verdict is
				// restored below.
				permanent = err
				var zero T
				return zero, nil
			}
			permanent = nil
			return value, err
		})
		if permanent != nil {
			var zero T
			return zero, permanent
		}
		return value, err
	})

	if err != nil && ctx.Err() != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		var zero T
		return zero, ctx.Err()
	}
	return value, err
}

// retryable reports whether another attempt could change the outcome.
func retryable(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, context.Canceled)
}
