package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// ValidateInput is the input schema for the validate_document tool.
type ValidateInput struct {
	Document  domain.Document `json:"document" jsonschema:"the clinical evaluation report to validate"`
	Framework string          `json:"framework,omitempty" jsonschema:"regulatory framework id (default: the document's framework)"`
}

// ValidateOutput is the output schema for the validate_document tool.
type ValidateOutput struct {
	Framework string        `json:"framework"`
	Result    domain.Result `json:"result"`
}

// ApplyFeedbackInput is the input schema for the apply_feedback tool.
type ApplyFeedbackInput struct {
	Document domain.Document  `json:"document" jsonschema:"the report the corrections apply to"`
	Feedback []map[string]any `json:"feedback" jsonschema:"ordered kind-tagged correction items"`
	Reviewer string           `json:"reviewer" jsonschema:"reviewer name recorded in the revision trail"`
}

// ApplyFeedbackOutput is the output schema for the apply_feedback tool.
type ApplyFeedbackOutput struct {
	Document domain.Document `json:"document"`
	Applied  int             `json:"applied"`
	Skipped  int             `json:"skipped"`
	Revision string          `json:"revision"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_document",
		Description: "Validate a clinical evaluation report against a regulatory framework",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_feedback",
		Description: "Apply reviewer corrections to a report and record a revision",
	}, s.handleApplyFeedback)
}

// handleValidate handles the validate_document tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	framework := domain.Framework(input.Framework)
	if framework == "" {
		framework = input.Document.Framework
	}

	result, err := s.ports.Validation.Validate(ctx, &input.Document, framework)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	return nil, ValidateOutput{
		Framework: framework.String(),
		Result:    *result,
	}, nil
}

// handleApplyFeedback handles the apply_feedback tool invocation.
func (s *Server) handleApplyFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ApplyFeedbackInput,
) (*mcp.CallToolResult, ApplyFeedbackOutput, error) {
	raw, err := json.Marshal(input.Feedback)
	if err != nil {
		return nil, ApplyFeedbackOutput{}, fmt.Errorf("encoding feedback: %w", err)
	}
	var batch domain.FeedbackBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, ApplyFeedbackOutput{}, fmt.Errorf("decoding feedback: %w", err)
	}

	updated, err := s.ports.Feedback.Apply(ctx, &input.Document, nil, batch, input.Reviewer)
	if err != nil {
		return nil, ApplyFeedbackOutput{}, err
	}

	revision := updated.Revisions[len(updated.Revisions)-1]
	return nil, ApplyFeedbackOutput{
		Document: *updated,
		Applied:  revision.Changes,
		Skipped:  len(batch) - revision.Changes,
		Revision: revision.ID,
	}, nil
}
