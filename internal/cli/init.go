package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/config"
	"github.com/corvid-tools/magpie/internal/index"
)

const defaultVaultConfig = `# Magpie vault configuration.
# Every setting is optional; the values below are the defaults.

#directories:
#  inbox: Inbox
#  fleeting: Fleeting
#  permanent: Permanent
#  archive: Archive

#score:
#  length: 0.30
#  links: 0.30
#  tags: 0.20
#  structure: 0.20

#promotion:
#  promote_score: 0.7
#  promote_age_days: 7
#  promote_links: 3
#  develop_score: 0.4

#link_threshold: 0.65
#max_tags: 8
#concurrency: 4
#ai_timeout_seconds: 30
`

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new vault",
	Long: `Creates a new vault at the specified path with default configuration.

Creates:
  - magpie.yaml   (vault configuration)
  - Inbox/, Fleeting/, Permanent/, Archive/  (lifecycle directories)
  - .magpie/      (embedding cache directory)
  - .gitignore    (ignores derived files)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}

		vaultCfg := &config.VaultConfig{}
		stageDirs := []string{
			vaultCfg.GetInboxDir(),
			vaultCfg.GetFleetingDir(),
			vaultCfg.GetPermanentDir(),
			vaultCfg.GetArchiveDir(),
			index.DotDir,
		}
		for _, dir := range stageDirs {
			if err := os.MkdirAll(filepath.Join(path, dir), 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}

		createdConfig := false
		configFile := filepath.Join(path, config.VaultConfigFile)
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := os.WriteFile(configFile, []byte(defaultVaultConfig), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", config.VaultConfigFile, err)
			}
			createdConfig = true
		}

		gitignoreStatus, err := ensureGitignore(path)
		if err != nil {
			return err
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":           path,
				"created_config": createdConfig,
				"gitignore":      gitignoreStatus,
			}, nil)
			return nil
		}

		fmt.Printf("Initialized vault at: %s\n", path)
		if createdConfig {
			fmt.Println("✓ Created magpie.yaml (vault configuration)")
		} else {
			fmt.Println("• magpie.yaml already exists (kept)")
		}
		fmt.Println("✓ Created lifecycle directories (Inbox, Fleeting, Permanent, Archive)")
		fmt.Println("✓ Ensured .magpie/ directory exists")
		switch gitignoreStatus {
		case "created":
			fmt.Println("✓ Created .gitignore")
		case "updated":
			fmt.Println("✓ Updated .gitignore (added Magpie entries)")
		}
		fmt.Println()
		fmt.Println("Next: drop markdown notes into Inbox/ and run 'mag process-inbox'")
		return nil
	},
}

// ensureGitignore adds the derived-file entries without clobbering an
// existing .gitignore. Returns "created", "updated", or "unchanged".
func ensureGitignore(vaultPath string) (string, error) {
	gitignorePath := filepath.Join(vaultPath, ".gitignore")
	entries := []string{index.DotDir + "/", ".trash/"}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range entries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		if existing != "" {
			return "unchanged", nil
		}
	}

	status := "updated"
	var content string
	if existing == "" {
		status = "created"
		content = `# Magpie derived files - your markdown is the source of truth

# Embedding cache
` + index.DotDir + `/

# Trashed files
.trash/
`
	} else {
		content = strings.TrimRight(existing, "\n") + "\n\n# Magpie\n"
		for _, entry := range missing {
			content += entry + "\n"
		}
	}
	if err := os.WriteFile(gitignorePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
