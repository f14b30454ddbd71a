// Package config handles global Magpie configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global Magpie configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// AI configures the text-generation and embedding backend.
	AI AIConfig `toml:"ai"`
}

// AIConfig holds backend settings shared by all vaults.
type AIConfig struct {
	// APIKeyEnv names the environment variable holding the API key
	// (default: "GEMINI_API_KEY"). The key itself is never stored in config.
	APIKeyEnv string `toml:"api_key_env"`

	// Model is the text-generation model (default: "gemini-1.5-flash").
	Model string `toml:"model"`

	// EmbeddingModel is the embedding model (default: "text-embedding-004").
	EmbeddingModel string `toml:"embedding_model"`
}

// Defaults used when fields are unset.
const (
	DefaultAPIKeyEnv      = "GEMINI_API_KEY"
	DefaultModel          = "gemini-1.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
)

// GetAPIKeyEnv returns the configured API key env var name, or the default.
func (c *Config) GetAPIKeyEnv() string {
	if c.AI.APIKeyEnv != "" {
		return c.AI.APIKeyEnv
	}
	return DefaultAPIKeyEnv
}

// GetModel returns the configured generation model, or the default.
func (c *Config) GetModel() string {
	if c.AI.Model != "" {
		return c.AI.Model
	}
	return DefaultModel
}

// GetEmbeddingModel returns the configured embedding model, or the default.
func (c *Config) GetEmbeddingModel() string {
	if c.AI.EmbeddingModel != "" {
		return c.AI.EmbeddingModel
	}
	return DefaultEmbeddingModel
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}
	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}
	if c.Vaults != nil {
		if path, ok := c.Vaults[name]; ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// DefaultPath returns the default global config path:
// $XDG_CONFIG_HOME/magpie/config.toml, falling back to ~/.config/magpie/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "magpie", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".magpie.toml")
	}
	return filepath.Join(home, ".config", "magpie", "config.toml")
}

// Load reads the global config from path. A missing file is not an error:
// it returns an empty config, so first-run commands like `mag init` work.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
