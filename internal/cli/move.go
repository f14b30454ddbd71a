package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/ui"
	"github.com/corvid-tools/magpie/internal/vault"
)

var moveDryRun bool

// runMove resolves a note reference and transitions it to the target stage,
// relocating the file and rewriting its frontmatter.
func runMove(ref string, to note.Stage) error {
	store, err := openStore()
	if err != nil {
		return handleError(ErrVaultNotFound, err, "")
	}

	relPath, err := store.Resolve(ref)
	if err != nil {
		if errors.Is(err, vault.ErrAmbiguousRef) {
			return handleError(ErrRefAmbiguous, err, "Use the full note ID or path")
		}
		return handleError(ErrNoteNotFound, err, "Run 'mag status' to see the vault")
	}

	n, hash, err := store.Read(relPath)
	if err != nil {
		return handleError(ErrMalformedNote, err, "Fix the note's frontmatter first")
	}

	from := note.StageOf(n)
	if !note.CanTransition(from, to) {
		return handleError(ErrInvalidTransition,
			fmt.Errorf("cannot move %s from %s to %s", n.ID, from, to), "")
	}

	oldPath := n.Path
	if moveDryRun {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note_id": n.ID,
				"from":    string(from),
				"to":      string(to),
				"dry_run": true,
			}, nil)
			return nil
		}
		fmt.Println(ui.Infof("would move %s: %s → %s", ui.NoteID(n.ID), from, to))
		return nil
	}

	if err := store.Move(n, to, hash); err != nil {
		if errors.Is(err, atomicfile.ErrConflict) {
			return handleError(ErrWriteConflict, err, "The note changed on disk; re-run the command")
		}
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"note_id":  n.ID,
			"from":     string(from),
			"to":       string(to),
			"old_path": oldPath,
			"new_path": n.Path,
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("moved %s: %s → %s (%s)", ui.NoteID(n.ID), from, to, n.Path))
	return nil
}

var promoteCmd = &cobra.Command{
	Use:   "promote <note>",
	Short: "Promote a fleeting note to permanent",
	Long: `Moves a fleeting note into the permanent directory and updates its
frontmatter to type permanent, status promoted. Only fleeting notes can
be promoted; run 'mag weekly-review' to see which are ready.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(args[0], note.StagePermanent)
	},
}

var triageCmd = &cobra.Command{
	Use:   "triage <note>",
	Short: "Move an inbox note to fleeting",
	Long: `Accepts an inbox capture as a fleeting note worth developing, moving it
into the fleeting directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(args[0], note.StageFleeting)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <note>",
	Short: "Archive a note",
	Long: `Moves an inbox or fleeting note into the archive. Archived notes keep
their content but leave the automated lifecycle for good.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(args[0], note.StageArchived)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{promoteCmd, triageCmd, archiveCmd} {
		cmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "Show what would happen without writing")
		rootCmd.AddCommand(cmd)
	}
}
