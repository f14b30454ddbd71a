package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/ui"
	"github.com/corvid-tools/magpie/internal/vault"
)

var linksBroken bool

type linkSuggestion struct {
	NoteID string  `json:"note_id"`
	Score  float64 `json:"score"`
}

var linksCmd = &cobra.Command{
	Use:   "links [note]",
	Short: "Suggest links for a note, or list broken links",
	Long: `With a note argument, finds semantically related notes the target does
not link to yet. Requires the embedding backend.

With --broken, lists wiki-links that do not resolve to any note; this
needs no backend.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if linksBroken {
			return runBrokenLinks()
		}
		if len(args) == 0 {
			return handleError(ErrMissingArgument,
				fmt.Errorf("a note argument is required unless --broken is set"), "")
		}
		return runSuggestLinks(cmd, args[0])
	},
}

func runBrokenLinks() error {
	store, err := openStore()
	if err != nil {
		return handleError(ErrVaultNotFound, err, "")
	}
	results, err := store.Scan()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	broken := vault.BrokenLinks(vault.Notes(results))

	if isJSONOutput() {
		outputSuccess(broken, &Meta{Count: len(broken)})
		return nil
	}
	if len(broken) == 0 {
		fmt.Println(ui.Success("no broken links"))
		return nil
	}
	for _, b := range broken {
		fmt.Printf("%s %s → [[%s]]\n", ui.SymbolWarning, ui.NoteID(b.SourceID), b.Target)
	}
	fmt.Println()
	fmt.Println(ui.Count(len(broken), "broken link", "broken links"))
	return nil
}

func runSuggestLinks(cmd *cobra.Command, ref string) error {
	runner, cleanup, err := newRunner(cmd.Context(), true)
	if err != nil {
		return handleRunnerError(err)
	}
	defer cleanup()

	store := runner.Store
	relPath, err := store.Resolve(ref)
	if err != nil {
		return handleError(ErrNoteNotFound, err, "Run 'mag status' to see the vault")
	}
	n, _, err := store.Read(relPath)
	if err != nil {
		return handleError(ErrMalformedNote, err, "Fix the note's frontmatter first")
	}

	results, err := store.Scan()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	candidates, err := runner.Finder.FindCandidates(cmd.Context(), n, vault.Notes(results), runner.LinkThreshold)
	if err != nil {
		if errors.Is(err, ai.ErrBackendUnavailable) {
			return handleError(ErrBackendUnavailable, err,
				"Set the API key environment variable (default GEMINI_API_KEY)")
		}
		return handleError(ErrInternal, err, "")
	}

	suggestions := make([]linkSuggestion, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, linkSuggestion{NoteID: c.Note.ID, Score: c.Score})
	}

	if isJSONOutput() {
		outputSuccess(suggestions, &Meta{Count: len(suggestions)})
		return nil
	}
	if len(suggestions) == 0 {
		fmt.Printf("no link suggestions for %s\n", ui.NoteID(n.ID))
		return nil
	}
	fmt.Println(ui.Header("Suggested links for ") + ui.NoteID(n.ID))
	for _, s := range suggestions {
		fmt.Printf("  %s  %s\n", ui.Score(s.Score), ui.NoteID(s.NoteID))
	}
	return nil
}

func init() {
	linksCmd.Flags().BoolVar(&linksBroken, "broken", false, "List wiki-links that do not resolve")
	rootCmd.AddCommand(linksCmd)
}
