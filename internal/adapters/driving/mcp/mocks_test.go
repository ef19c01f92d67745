package mcp

import (
	"context"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// mockValidationService is a mock implementation of driving.ValidationService.
type mockValidationService struct {
	result    *domain.Result
	err       error
	framework domain.Framework
}

func (m *mockValidationService) Validate(
	_ context.Context,
	_ *domain.Document,
	framework domain.Framework,
) (*domain.Result, error) {
	m.framework = framework
	return m.result, m.err
}

// mockFeedbackService is a mock implementation of driving.FeedbackService.
type mockFeedbackService struct {
	updated *domain.Document
	err     error
	batch   domain.FeedbackBatch
}

func (m *mockFeedbackService) Apply(
	_ context.Context,
	_ *domain.Document,
	_ *domain.Result,
	batch domain.FeedbackBatch,
	_ string,
) (*domain.Document, error) {
	m.batch = batch
	return m.updated, m.err
}

// mockRegistryProvider is a mock implementation of driven.RegistryProvider.
type mockRegistryProvider struct {
	registries map[domain.Framework]*domain.Registry
}

func (m *mockRegistryProvider) Registry(framework domain.Framework) (*domain.Registry, error) {
	reg, ok := m.registries[framework]
	if !ok {
		return nil, domain.ErrFrameworkNotSupported
	}
	return reg, nil
}

func (m *mockRegistryProvider) Frameworks() []domain.Framework {
	frameworks := make([]domain.Framework, 0, len(m.registries))
	for framework := range m.registries {
		frameworks = append(frameworks, framework)
	}
	return frameworks
}

// testPorts returns a fully populated port set over the given mocks.
func testPorts(validation *mockValidationService, feedback *mockFeedbackService) *Ports {
	return &Ports{
		Validation: validation,
		Feedback:   feedback,
		Registries: &mockRegistryProvider{
			registries: map[domain.Framework]*domain.Registry{
				domain.FrameworkEUMDR: {
					Framework: domain.FrameworkEUMDR,
					RequiredSections: []domain.RequiredSection{
						{ID: "conclusion", Name: "Conclusion", Criticality: domain.SeverityCritical, RegulatoryRef: "MDR Annex XIV"},
					},
					Checklist: []domain.ChecklistItem{
						{ID: "state-of-art", Description: "State of the art established", Criticality: domain.SeverityMajor, RegulatoryRef: "MDCG 2020-13"},
					},
				},
			},
		},
	}
}
