package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/docfile"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/watch"
)

var (
	validateFramework string
	validateJSON      bool
	validateOutput    string
	validateWatch     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [document]",
	Short: "Validate a CER document",
	Long: `Validates a Clinical Evaluation Report against its regulatory
framework and reports every issue found, grouped by severity.

The command exits non-zero when the document is not complete, so it can
gate a drafting pipeline.

Examples:
  # Validate against the framework named in the document
  cerval validate report.json

  # Validate against an explicit framework, machine-readable output
  cerval validate report.json --framework eu-mdr --json

  # Re-validate whenever the draft changes
  cerval validate report.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFramework, "framework", "f", "", "regulatory framework (default: the document's)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the result as JSON")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "write the result JSON to a file")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when the document changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}
	path := args[0]

	if validateWatch {
		return runValidateWatch(cmd, path)
	}

	result, err := validateFile(cmd.Context(), cmd, path)
	if err != nil {
		return err
	}
	if !result.Complete {
		return ErrIncomplete
	}
	return nil
}

// validateFile runs one validation pass over the document at path and
// renders the result.
func validateFile(ctx context.Context, cmd *cobra.Command, path string) (*domain.Result, error) {
	doc, err := docfile.LoadDocument(path)
	if err != nil {
		return nil, err
	}

	result, err := validationService.Validate(ctx, doc, domain.Framework(validateFramework))
	if err != nil {
		return nil, err
	}

	if validateOutput != "" {
		if err := docfile.SaveResult(validateOutput, result); err != nil {
			return nil, err
		}
	}

	if validateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding result: %w", err)
		}
		cmd.Println(string(data))
		return result, nil
	}

	renderResult(cmd, doc, result)
	return result, nil
}

// runValidateWatch validates once, then again after each settled change
// to the document. Incomplete results keep the watch alive; only
// engine failures end it.
func runValidateWatch(cmd *cobra.Command, path string) error {
	debounce := watch.DefaultDebounce
	if configStore != nil {
		debounce = configStore.Config().Watch.Debounce()
	}

	run := func(ctx context.Context) {
		if _, err := validateFile(ctx, cmd, path); err != nil {
			cmd.PrintErrf("validation error: %v\n", err)
		}
	}

	ctx := cmd.Context()
	run(ctx)
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)

	err := watch.New(debounce).Watch(ctx, path, run)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderResult prints the human-readable validation report.
func renderResult(cmd *cobra.Command, doc *domain.Document, result *domain.Result) {
	width := terminalWidth()

	cmd.Printf("Document:  %s\n", doc.ID)
	cmd.Printf("Framework: %s\n", doc.Framework.Description())
	if result.Complete {
		cmd.Println("Status:    COMPLETE")
	} else {
		cmd.Println("Status:    NOT COMPLETE")
	}
	cmd.Println()

	if len(result.MissingSections) > 0 {
		cmd.Printf("Missing required sections (%d):\n", len(result.MissingSections))
		for _, id := range result.MissingSections {
			cmd.Printf("  - %s\n", id)
		}
		cmd.Println()
	}

	for _, severity := range []domain.Severity{
		domain.SeverityCritical,
		domain.SeverityMajor,
		domain.SeverityMinor,
		domain.SeveritySuggestion,
	} {
		issues := result.BySeverity(severity)
		if len(issues) == 0 {
			continue
		}
		cmd.Printf("%s (%d):\n", strings.ToUpper(severity.String()), len(issues))
		for _, issue := range issues {
			line := fmt.Sprintf("  [%s] %s", issue.Type, issue.Message)
			if issue.SectionID != "" {
				line += fmt.Sprintf(" (section: %s)", issue.SectionID)
			}
			cmd.Println(clip(line, width))
			if issue.RegulatoryRef != "" {
				cmd.Println(clip("      ref: "+issue.RegulatoryRef, width))
			}
		}
		cmd.Println()
	}

	cmd.Printf("Checklist: %d/%d passed", result.Checklist.Passed, result.Checklist.Total)
	if result.Checklist.Failed > 0 {
		cmd.Printf(", %d failed", result.Checklist.Failed)
	}
	cmd.Println()

	if len(result.Issues) == 0 {
		cmd.Println("No issues found.")
	}
}

// terminalWidth returns the stdout width, or a conservative default
// when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 100
}

// clip shortens a line to the terminal width.
func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width < 4 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
