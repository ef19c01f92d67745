// Package mcp provides an MCP (Model Context Protocol) server adapter for
// cerval. It lets drafting agents validate the reports they generate and
// apply reviewer feedback without shelling out to the CLI.
package mcp

import "errors"

// ErrMissingValidationService is returned when the validation service is not provided.
var ErrMissingValidationService = errors.New("mcp: validation service is required")

// ErrMissingFeedbackService is returned when the feedback service is not provided.
var ErrMissingFeedbackService = errors.New("mcp: feedback service is required")
