// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/config"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path
	configPath    string

	// Resolved values
	resolvedVaultPath string
	cfg               *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mag",
	Short: "Magpie - a note lifecycle assistant for Zettelkasten vaults",
	Long: `Magpie watches over a markdown note vault and helps raw captures mature
into permanent notes: it scores draft quality, suggests tags and links,
and recommends which fleeting notes are ready to promote.

Named for the bird that collects shiny things and builds with them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip vault resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "vault", "completion", "help", "version", "docs":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "vault") {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Resolve vault path: explicit path > named vault > default
		if vaultPathFlag != "" {
			resolvedVaultPath = vaultPathFlag
		} else if vaultName != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
			if err != nil {
				return fmt.Errorf("vault '%s' not found\n\nRun 'mag vault list' to see configured vaults", vaultName)
			}
		} else if cfg.DefaultVault != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(cfg.DefaultVault)
			if err != nil {
				return fmt.Errorf("default vault '%s' not found in config\n\nRun 'mag vault list' to see configured vaults", cfg.DefaultVault)
			}
		} else {
			return fmt.Errorf(`no vault specified

Either:
  1. Use --vault <name> (from config)
  2. Use --vault-path /path/to/vault
  3. Run 'mag vault default <name>' to set a default
  4. Run 'mag init /path/to/new/vault' to create one`)
		}

		if _, err := os.Stat(resolvedVaultPath); os.IsNotExist(err) {
			return fmt.Errorf("vault not found: %s\n\nRun 'mag init %s' to create it", resolvedVaultPath, resolvedVaultPath)
		}

		return nil
	},
}

// Execute runs the CLI. Ctrl-C cancels the command context; batch commands
// stop submitting new work and report what finished.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func loadGlobalConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded = &config.Config{}
	}
	return loaded, nil
}
