package driven

import (
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// RegistryProvider resolves the rule registry for a regulatory framework.
type RegistryProvider interface {
	// Registry returns the rule set for the framework. The returned
	// registry is shared and must be treated as read-only.
	// Returns domain.ErrFrameworkNotSupported when no registry exists.
	Registry(framework domain.Framework) (*domain.Registry, error)

	// Frameworks lists the frameworks a registry exists for.
	Frameworks() []domain.Framework
}
