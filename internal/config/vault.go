package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// VaultConfigFile is the per-vault configuration filename.
const VaultConfigFile = "magpie.yaml"

// VaultConfig represents vault-level configuration from magpie.yaml.
// Every field has a documented default so an empty (or absent) file gives
// the behavior described in the docs.
type VaultConfig struct {
	// Directories maps lifecycle stages to vault-relative directory names.
	Directories *DirectoriesConfig `yaml:"directories,omitempty"`

	// Score configures the quality scorer weights.
	Score *ScoreConfig `yaml:"score,omitempty"`

	// Promotion configures the promotion thresholds.
	Promotion *PromotionConfig `yaml:"promotion,omitempty"`

	// LinkThreshold is the minimum cosine similarity for link suggestions
	// (default 0.65).
	LinkThreshold float64 `yaml:"link_threshold,omitempty"`

	// MaxTags caps AI tag suggestions per note (default 8).
	MaxTags int `yaml:"max_tags,omitempty"`

	// Concurrency bounds the batch worker pool (default 4).
	Concurrency int `yaml:"concurrency,omitempty"`

	// AITimeoutSeconds bounds each backend call (default 30).
	AITimeoutSeconds int `yaml:"ai_timeout_seconds,omitempty"`
}

// DirectoriesConfig maps lifecycle stages to directories.
type DirectoriesConfig struct {
	Inbox     string `yaml:"inbox,omitempty"`
	Fleeting  string `yaml:"fleeting,omitempty"`
	Permanent string `yaml:"permanent,omitempty"`
	Archive   string `yaml:"archive,omitempty"`
}

// ScoreConfig holds quality scorer weights. They should sum to 1.0; the
// scorer normalizes if they do not.
type ScoreConfig struct {
	Length    float64 `yaml:"length"`
	Links     float64 `yaml:"links"`
	Tags      float64 `yaml:"tags"`
	Structure float64 `yaml:"structure"`
}

// PromotionConfig holds promotion decision thresholds.
type PromotionConfig struct {
	PromoteScore   float64 `yaml:"promote_score"`
	PromoteAgeDays int     `yaml:"promote_age_days"`
	PromoteLinks   int     `yaml:"promote_links"`
	DevelopScore   float64 `yaml:"develop_score"`
}

// Default directory names.
const (
	DefaultInboxDir     = "Inbox"
	DefaultFleetingDir  = "Fleeting"
	DefaultPermanentDir = "Permanent"
	DefaultArchiveDir   = "Archive"
)

// GetInboxDir returns the inbox directory name with defaults applied.
func (vc *VaultConfig) GetInboxDir() string {
	if vc != nil && vc.Directories != nil && vc.Directories.Inbox != "" {
		return vc.Directories.Inbox
	}
	return DefaultInboxDir
}

// GetFleetingDir returns the fleeting directory name with defaults applied.
func (vc *VaultConfig) GetFleetingDir() string {
	if vc != nil && vc.Directories != nil && vc.Directories.Fleeting != "" {
		return vc.Directories.Fleeting
	}
	return DefaultFleetingDir
}

// GetPermanentDir returns the permanent directory name with defaults applied.
func (vc *VaultConfig) GetPermanentDir() string {
	if vc != nil && vc.Directories != nil && vc.Directories.Permanent != "" {
		return vc.Directories.Permanent
	}
	return DefaultPermanentDir
}

// GetArchiveDir returns the archive directory name with defaults applied.
func (vc *VaultConfig) GetArchiveDir() string {
	if vc != nil && vc.Directories != nil && vc.Directories.Archive != "" {
		return vc.Directories.Archive
	}
	return DefaultArchiveDir
}

// GetLinkThreshold returns the link similarity threshold with the default applied.
func (vc *VaultConfig) GetLinkThreshold() float64 {
	if vc != nil && vc.LinkThreshold > 0 {
		return vc.LinkThreshold
	}
	return 0.65
}

// GetMaxTags returns the tag suggestion cap with the default applied.
func (vc *VaultConfig) GetMaxTags() int {
	if vc != nil && vc.MaxTags > 0 {
		return vc.MaxTags
	}
	return 8
}

// GetConcurrency returns the worker pool size with the default applied.
func (vc *VaultConfig) GetConcurrency() int {
	if vc != nil && vc.Concurrency > 0 {
		return vc.Concurrency
	}
	return 4
}

// GetAITimeout returns the per-call backend timeout with the default applied.
func (vc *VaultConfig) GetAITimeout() time.Duration {
	if vc != nil && vc.AITimeoutSeconds > 0 {
		return time.Duration(vc.AITimeoutSeconds) * time.Second
	}
	return 30 * time.Second
}

// LoadVaultConfig loads magpie.yaml from the vault root.
// Returns an empty config (all defaults) when the file does not exist.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	path := filepath.Join(vaultPath, VaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &VaultConfig{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", VaultConfigFile, err)
	}

	var cfg VaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", VaultConfigFile, err)
	}
	return &cfg, nil
}
