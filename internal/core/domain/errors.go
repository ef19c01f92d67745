package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Checkers downgrade lookup misses to unverifiable flags; they never
	// treat them as engine failures.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDocument indicates a document missing mandatory fields.
	// Validation refuses to run on such documents.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrFrameworkNotSupported indicates no registry exists for the
	// requested framework. Validation never silently passes an
	// unsupported framework.
	ErrFrameworkNotSupported = errors.New("framework not supported")

	// ErrEngineFailure indicates a checker could not complete its run.
	// The whole validation aborts; a partial result is never returned.
	ErrEngineFailure = errors.New("validation engine error")

	// ErrInvalidFeedback indicates a feedback item that cannot be decoded.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrUnsupportedType indicates an unknown adapter or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Knowledge-Base Errors.

	// ErrAuthRequired indicates the knowledge service requires
	// authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the knowledge service rejected the
	// configured credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the knowledge service rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
