package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/ui"
	"github.com/corvid-tools/magpie/internal/watcher"
)

var watchDebug bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and keep the embedding cache fresh",
	Long: `Watches the vault for markdown changes. Edited notes are re-embedded in
the background (when the AI backend is configured) and deleted notes are
evicted from the cache, so link suggestions start from a warm cache.

Runs until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := index.AcquireLock(getVaultPath())
		if err != nil {
			if errors.Is(err, index.ErrIndexLocked) {
				return handleError(ErrIndexLocked, err,
					"Another mag process is running against this vault; retry when it finishes")
			}
			return handleError(ErrDatabaseError, err, "")
		}
		defer lock.Release()

		cache, err := index.Open(getVaultPath())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer cache.Close()

		_, emb, closeBackend, err := newBackend(cmd.Context())
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer closeBackend()

		cfg := watcher.Config{
			VaultPath: getVaultPath(),
			Cache:     cache,
			Debug:     watchDebug,
			OnUpdate: func(relPath string, err error) {
				if err != nil {
					fmt.Println(ui.Errorf("%s: %v", relPath, err))
					return
				}
				fmt.Printf("%s %s\n", ui.SymbolSuccess, ui.NoteID(relPath))
			},
		}
		// Only wire the embedder when a real backend is configured; the
		// noop backend would turn every save into an error line.
		if os.Getenv(getConfig().GetAPIKeyEnv()) != "" {
			cfg.Embedder = emb
		}

		w, err := watcher.New(cfg)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		fmt.Println(ui.Header("Watching ") + ui.FilePath(getVaultPath()))
		if cfg.Embedder == nil {
			fmt.Println(ui.Hint("no API key set; stale cache entries are evicted, not re-embedded"))
		}

		err = w.Start(cmd.Context())
		if errors.Is(err, context.Canceled) {
			fmt.Println()
			fmt.Println("stopped")
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchDebug, "debug", false, "Log watcher events to stderr")
	rootCmd.AddCommand(watchCmd)
}
