package mcp

import (
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Validation validates documents against a framework.
	Validation driving.ValidationService

	// Feedback applies reviewer correction batches.
	Feedback driving.FeedbackService

	// Registries resolves framework rule registries. Optional; without
	// it the framework resources report nothing.
	Registries driven.RegistryProvider
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	if p.Feedback == nil {
		return ErrMissingFeedbackService
	}
	return nil
}
