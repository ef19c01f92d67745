package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/docfile"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Apply reviewer feedback to a document",
	Long: `Commands for integrating human-reviewer corrections into a
validated report. Corrections are applied to a copy; the updated
document carries one new revision entry per batch.`,
}

var (
	feedbackItems    string
	feedbackReviewer string
	feedbackResult   string
	feedbackOutput   string
)

var feedbackApplyCmd = &cobra.Command{
	Use:   "apply [document]",
	Short: "Apply a correction batch",
	Long: `Applies an ordered batch of correction items to the document and
writes the next revision.

The feedback file is a JSON array of kind-tagged items:
  [
    {"kind": "text_correction", "section_id": "safety",
     "old_text": "650 mg/dl", "new_text": "150 mg/dl"},
    {"kind": "citation_correction", "citation_key": "smith-2099",
     "old_text": "(Smith et al., 2099)", "new_text": "(Smith et al., 2019)"}
  ]

Items of an unrecognised kind are skipped with a warning, never
rejected as a batch.

Examples:
  cerval feedback apply report.json --items corrections.json --reviewer "J. Doe"
  cerval feedback apply report.json --items corrections.json --reviewer "J. Doe" -o report.v2.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedbackApply,
}

func init() {
	feedbackApplyCmd.Flags().StringVarP(&feedbackItems, "items", "i", "", "feedback batch file (required)")
	feedbackApplyCmd.Flags().StringVarP(&feedbackReviewer, "reviewer", "r", "", "reviewer name recorded in the revision (required)")
	feedbackApplyCmd.Flags().StringVar(&feedbackResult, "result", "", "validation result the feedback responds to")
	feedbackApplyCmd.Flags().StringVarP(&feedbackOutput, "output", "o", "", "output path (default: overwrite the document)")
	_ = feedbackApplyCmd.MarkFlagRequired("items")
	_ = feedbackApplyCmd.MarkFlagRequired("reviewer")

	feedbackCmd.AddCommand(feedbackApplyCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedbackApply(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	doc, err := docfile.LoadDocument(args[0])
	if err != nil {
		return err
	}

	batch, err := docfile.LoadFeedback(feedbackItems)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("feedback file %s holds no items", feedbackItems)
	}

	var result *domain.Result
	if feedbackResult != "" {
		if result, err = docfile.LoadResult(feedbackResult); err != nil {
			return err
		}
	}

	updated, err := feedbackService.Apply(cmd.Context(), doc, result, batch, feedbackReviewer)
	if err != nil {
		return fmt.Errorf("applying feedback: %w", err)
	}

	output := feedbackOutput
	if output == "" {
		output = args[0]
	}
	if err := docfile.SaveDocument(output, updated); err != nil {
		return err
	}

	revision := updated.Revisions[len(updated.Revisions)-1]
	cmd.Printf("Applied %d of %d corrections to %s\n", revision.Changes, len(batch), doc.ID)
	cmd.Printf("Revision %s by %s written to %s\n", revision.ID, revision.Reviewer, output)
	return nil
}
