package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/ui"
)

var (
	reviewRaw   bool
	reviewWidth int
)

var weeklyReviewCmd = &cobra.Command{
	Use:   "weekly-review",
	Short: "Generate the weekly review report",
	Long: `Scores every fleeting note, recommends an action for each, and renders
the review as markdown grouped by recommendation. Runs fully offline.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := newRunner(cmd.Context(), true)
		if err != nil {
			return handleRunnerError(err)
		}
		defer cleanup()

		report, err := runner.WeeklyReview(cmd.Context(), time.Now().UTC())
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(report, &Meta{Count: report.Total()})
			return nil
		}

		markdown := report.Render()
		display := ui.NewDisplayContext()
		if reviewWidth > 0 {
			// Fixed width renders styled output even into a pipe.
			display = ui.NewDisplayContextWithWidth(reviewWidth)
		}
		if reviewRaw || !display.IsTTY {
			fmt.Print(markdown)
			return nil
		}

		rendered, err := ui.RenderMarkdown(markdown, display.TermWidth)
		if err != nil {
			// Fall back to raw markdown rather than failing the review.
			fmt.Print(markdown)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	weeklyReviewCmd.Flags().BoolVar(&reviewRaw, "raw", false, "Print raw markdown without terminal styling")
	weeklyReviewCmd.Flags().IntVar(&reviewWidth, "width", 0, "Render at a fixed width instead of the detected terminal width")
	rootCmd.AddCommand(weeklyReviewCmd)
}
