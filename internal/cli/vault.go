package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/config"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage configured vaults",
	Long: `Manages the vault registry in the global config file.

Example config (~/.config/magpie/config.toml):
  default_vault = "personal"

  [vaults]
  personal = "/home/you/notes"
  work = "/home/you/work-notes"`,
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured vaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default_vault": loaded.DefaultVault,
				"vaults":        loaded.Vaults,
			}, &Meta{Count: len(loaded.Vaults)})
			return nil
		}

		if len(loaded.Vaults) == 0 {
			fmt.Println("No vaults configured.")
			fmt.Println()
			fmt.Println("Add one with 'mag vault add <name> <path>'")
			return nil
		}

		names := make([]string, 0, len(loaded.Vaults))
		for name := range loaded.Vaults {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			marker := "  "
			if name == loaded.DefaultVault {
				marker = "* "
			}
			fmt.Printf("%s%-12s %s\n", marker, name, loaded.Vaults[name])
		}
		if loaded.DefaultVault != "" {
			fmt.Println()
			fmt.Println("* = default vault")
		}
		return nil
	},
}

var vaultAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a vault to the registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		abs, err := filepath.Abs(path)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		loaded, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if loaded.Vaults == nil {
			loaded.Vaults = map[string]string{}
		}
		loaded.Vaults[name] = abs
		if loaded.DefaultVault == "" {
			loaded.DefaultVault = name
		}
		if err := saveGlobalConfig(loaded); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"name": name, "path": abs}, nil)
			return nil
		}
		fmt.Printf("Added vault '%s' at %s\n", name, abs)
		return nil
	},
}

var vaultRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a vault from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		loaded, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if _, ok := loaded.Vaults[name]; !ok {
			return handleError(ErrVaultNotFound,
				fmt.Errorf("vault '%s' not found", name), "Run 'mag vault list'")
		}
		delete(loaded.Vaults, name)
		if loaded.DefaultVault == name {
			loaded.DefaultVault = ""
		}
		if err := saveGlobalConfig(loaded); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"removed": name}, nil)
			return nil
		}
		fmt.Printf("Removed vault '%s' (files untouched)\n", name)
		return nil
	},
}

var vaultDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		loaded, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if _, ok := loaded.Vaults[name]; !ok {
			return handleError(ErrVaultNotFound,
				fmt.Errorf("vault '%s' not found", name), "Run 'mag vault list'")
		}
		loaded.DefaultVault = name
		if err := saveGlobalConfig(loaded); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"default_vault": name}, nil)
			return nil
		}
		fmt.Printf("Default vault is now '%s'\n", name)
		return nil
	},
}

func saveGlobalConfig(loaded *config.Config) error {
	if configPath != "" {
		return config.SaveTo(configPath, loaded)
	}
	return config.Save(loaded)
}

func init() {
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultRemoveCmd)
	vaultCmd.AddCommand(vaultDefaultCmd)
	rootCmd.AddCommand(vaultCmd)
}
