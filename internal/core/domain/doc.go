// Package domain defines the core business entities for Cerval.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A clinical evaluation report under validation
//   - Section: One titled block of report content
//   - Issue: A single validation finding with severity
//   - Result: The aggregated outcome of a validation run
//   - Registry: The immutable rule set for a regulatory framework
//   - FeedbackItem: A reviewer correction (closed set of kinds)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
