// Package docfile reads and writes CER documents, validation results
// and feedback batches as JSON files for the CLI and MCP surfaces.
package docfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// LoadDocument reads a CER document from a JSON file. Documents missing
// mandatory fields are rejected before any checker sees them.
func LoadDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	return &doc, nil
}

// SaveDocument writes a document to a JSON file.
func SaveDocument(path string, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return writeJSON(path, doc)
}

// LoadFeedback reads a feedback batch from a JSON file. Unrecognised
// correction kinds survive decoding so the integrator can skip them
// with a warning.
func LoadFeedback(path string) (domain.FeedbackBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feedback: %w", err)
	}

	var batch domain.FeedbackBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return batch, nil
}

// LoadResult reads a validation result from a JSON file.
func LoadResult(path string) (*domain.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &result, nil
}

// SaveResult writes a validation result to a JSON file.
func SaveResult(path string, result *domain.Result) error {
	return writeJSON(path, result)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
