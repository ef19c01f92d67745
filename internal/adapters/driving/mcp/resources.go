package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for cerval resources.
	uriScheme = "cerval://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing supported frameworks.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "frameworks",
		Name:        "frameworks",
		Description: "Regulatory frameworks a rule registry exists for",
		MIMEType:    "application/json",
	}, s.handleFrameworksResource)

	// Template for a single framework's registry.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "frameworks/{frameworkId}",
		Name:        "framework-registry",
		Description: "Required sections and checklist items of one framework",
		MIMEType:    "application/json",
	}, s.handleRegistryResource)
}

// handleFrameworksResource returns the list of supported frameworks.
func (s *Server) handleFrameworksResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Registries == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	type frameworkInfo struct {
		ID               string `json:"id"`
		Description      string `json:"description"`
		RequiredSections int    `json:"required_sections"`
		ChecklistItems   int    `json:"checklist_items"`
	}

	supported := s.ports.Registries.Frameworks()
	infos := make([]frameworkInfo, 0, len(supported))
	for _, framework := range supported {
		reg, err := s.ports.Registries.Registry(framework)
		if err != nil {
			return nil, fmt.Errorf("resolving registry %s: %w", framework, err)
		}
		infos = append(infos, frameworkInfo{
			ID:               framework.String(),
			Description:      framework.Description(),
			RequiredSections: len(reg.RequiredSections),
			ChecklistItems:   len(reg.Checklist),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling frameworks: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRegistryResource returns one framework's full rule registry.
func (s *Server) handleRegistryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Registries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	frameworkID := extractFrameworkID(req.Params.URI)
	if frameworkID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	reg, err := s.ports.Registries.Registry(domain.Framework(frameworkID))
	if err != nil {
		if errors.Is(err, domain.ErrFrameworkNotSupported) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("resolving registry: %w", err)
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling registry: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFrameworkID extracts the framework ID from a URI like cerval://frameworks/{frameworkId}.
func extractFrameworkID(uri string) string {
	const prefix = uriScheme + "frameworks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
