package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/docfile"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driving/tui"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

var reviewFramework string

var reviewCmd = &cobra.Command{
	Use:   "review [document]",
	Short: "Browse validation issues interactively",
	Long: `Validates the document and opens an interactive issue browser.

Controls:
  ↑/k, ↓/j - Navigate issues
  1-4      - Filter by severity (critical/major/minor/suggestion)
  a        - Show all severities
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewFramework, "framework", "f", "", "regulatory framework (default: the document's)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in review UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	doc, err := docfile.LoadDocument(args[0])
	if err != nil {
		return err
	}

	result, err := validationService.Validate(cmd.Context(), doc, domain.Framework(reviewFramework))
	if err != nil {
		return err
	}

	model := tui.NewReview(doc, result)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("review UI error: %w", err)
	}
	return nil
}
