package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/pipeline"
	"github.com/corvid-tools/magpie/internal/ui"
)

var (
	processDryRun  bool
	processNoLinks bool
)

var processInboxCmd = &cobra.Command{
	Use:   "process-inbox",
	Short: "Tag, score, and link every inbox note",
	Long: `Runs the enhancement pipeline over the inbox: suggests tags with the AI
backend, computes a quality score, and proposes wiki-links to related
notes. Without a backend the run degrades to scoring only.

Interrupting with Ctrl-C stops new work; notes already in flight finish
and are reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := newRunner(cmd.Context(), processDryRun)
		if err != nil {
			return handleRunnerError(err)
		}
		defer cleanup()
		if processNoLinks {
			runner.AddLinks = false
		}

		summary, err := runner.Process(cmd.Context(), note.StageInbox)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(summary, &Meta{
				Processed: summary.Processed,
				Skipped:   summary.Skipped,
				Errored:   summary.Errored,
			})
			return nil
		}

		printSummary(summary, processDryRun)
		return nil
	},
}

// printSummary renders a batch summary for humans.
func printSummary(summary *pipeline.Summary, dryRun bool) {
	for _, out := range summary.Outcomes {
		if out.Err != nil {
			fmt.Println(ui.Errorf("%s: %v", out.RelPath, out.Err))
			continue
		}
		line := fmt.Sprintf("%s %s score %s", ui.SymbolSuccess, ui.NoteID(out.RelPath), ui.Score(out.Score))
		if len(out.AddedTags) > 0 {
			line += fmt.Sprintf("  +%s", ui.Count(len(out.AddedTags), "tag", "tags"))
		}
		if len(out.SuggestedLinks) > 0 {
			line += fmt.Sprintf("  +%s", ui.Count(len(out.SuggestedLinks), "link", "links"))
		}
		fmt.Println(line)
		for _, warning := range out.Warnings {
			fmt.Println(ui.Hint("    " + warning))
		}
	}

	fmt.Println()
	suffix := ""
	if dryRun {
		suffix = " (dry run, nothing written)"
	}
	fmt.Printf("%d processed, %d skipped, %d errored%s\n",
		summary.Processed, summary.Skipped, summary.Errored, suffix)
}

func init() {
	processInboxCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Compute everything but write nothing")
	processInboxCmd.Flags().BoolVar(&processNoLinks, "no-links", false, "Skip writing link suggestions into notes")
	rootCmd.AddCommand(processInboxCmd)
}
