package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/ui"
	"github.com/corvid-tools/magpie/internal/vault"
)

type vaultStatus struct {
	Path      string         `json:"path"`
	Total     int            `json:"total"`
	ByStage   map[string]int `json:"by_stage"`
	Malformed int            `json:"malformed"`
	Broken    int            `json:"broken_links"`
	Cached    int            `json:"cached_embeddings"`
}

// cachedEmbeddings reports how many embeddings the vault's cache holds.
// A missing or unreadable cache counts as empty; status never fails on it.
func cachedEmbeddings(vaultPath string) int {
	db, err := index.Open(vaultPath)
	if err != nil {
		return 0
	}
	defer db.Close()
	count, err := db.Stats()
	if err != nil {
		return 0
	}
	return count
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault statistics",
	Long:  `Counts notes by lifecycle stage and reports data quality problems.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		results, err := store.Scan()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		status := vaultStatus{
			Path:    getVaultPath(),
			ByStage: map[string]int{},
		}
		var warnings []Warning
		for _, res := range results {
			if res.Err != nil {
				status.Malformed++
				warnings = append(warnings, Warning{
					Code:    WarnMalformedNote,
					Message: res.Err.Error(),
					Ref:     res.RelPath,
				})
				continue
			}
			status.Total++
			status.ByStage[string(note.StageOf(res.Note))]++
		}

		status.Cached = cachedEmbeddings(getVaultPath())

		broken := vault.BrokenLinks(vault.Notes(results))
		status.Broken = len(broken)
		for _, b := range broken {
			warnings = append(warnings, Warning{
				Code:    WarnBrokenLink,
				Message: fmt.Sprintf("link to [[%s]] does not resolve", b.Target),
				Ref:     b.SourceID,
			})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(status, warnings, &Meta{Count: status.Total})
			return nil
		}

		fmt.Println(ui.Header("Vault: ") + ui.FilePath(status.Path))
		fmt.Println()
		for _, stage := range []note.Stage{note.StageInbox, note.StageFleeting, note.StagePermanent, note.StageArchived} {
			fmt.Printf("  %-10s %d\n", string(stage), status.ByStage[string(stage)])
		}
		fmt.Printf("  %-10s %d\n", "total", status.Total)
		if status.Cached > 0 {
			fmt.Println(ui.Hint(fmt.Sprintf("  %s cached", ui.Count(status.Cached, "embedding", "embeddings"))))
		}
		if status.Malformed > 0 {
			fmt.Println()
			fmt.Println(ui.Warningf("%s with malformed frontmatter", ui.Count(status.Malformed, "note", "notes")))
		}
		if status.Broken > 0 {
			fmt.Println(ui.Warningf("%s found", ui.Count(status.Broken, "broken link", "broken links")))
			fmt.Println(ui.Hint("  run 'mag links --broken' for details"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
