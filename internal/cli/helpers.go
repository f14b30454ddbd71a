package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/config"
	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/link"
	"github.com/corvid-tools/magpie/internal/pipeline"
	"github.com/corvid-tools/magpie/internal/promote"
	"github.com/corvid-tools/magpie/internal/score"
	"github.com/corvid-tools/magpie/internal/vault"
)

// openStore loads the vault config and opens a store for the resolved vault.
func openStore() (*vault.Store, error) {
	vaultCfg, err := config.LoadVaultConfig(getVaultPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.VaultConfigFile, err)
	}
	return vault.NewStore(getVaultPath(), vaultCfg)
}

// scoreWeights converts vault config weights, falling back to the defaults.
func scoreWeights(vaultCfg *config.VaultConfig) score.Weights {
	if vaultCfg == nil || vaultCfg.Score == nil {
		return score.DefaultWeights
	}
	return score.Weights{
		Length:    vaultCfg.Score.Length,
		Links:     vaultCfg.Score.Links,
		Tags:      vaultCfg.Score.Tags,
		Structure: vaultCfg.Score.Structure,
	}
}

// promoteThresholds converts vault config thresholds; zero fields keep
// their documented defaults.
func promoteThresholds(vaultCfg *config.VaultConfig) promote.Thresholds {
	if vaultCfg == nil || vaultCfg.Promotion == nil {
		return promote.DefaultThresholds()
	}
	return promote.Thresholds{
		PromoteScore:   vaultCfg.Promotion.PromoteScore,
		PromoteAgeDays: vaultCfg.Promotion.PromoteAgeDays,
		PromoteLinks:   vaultCfg.Promotion.PromoteLinks,
		DevelopScore:   vaultCfg.Promotion.DevelopScore,
	}
}

// newBackend builds the Gemini client from global config. When the API key
// environment variable is unset, it returns the noop backend so offline
// commands still work (tagging and link finding degrade to warnings).
func newBackend(ctx context.Context) (ai.Generator, ai.Embedder, func(), error) {
	apiKey := os.Getenv(getConfig().GetAPIKeyEnv())
	if apiKey == "" {
		return ai.Noop{}, ai.Noop{}, func() {}, nil
	}
	client, err := ai.NewClient(ctx, apiKey, getConfig().GetModel(), getConfig().GetEmbeddingModel())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return client, client, func() { _ = client.Close() }, nil
}

// handleRunnerError maps a newRunner failure to the right error code.
func handleRunnerError(err error) error {
	if errors.Is(err, index.ErrIndexLocked) {
		return handleError(ErrIndexLocked, err,
			"Another mag process is running against this vault; retry when it finishes")
	}
	return handleError(ErrVaultNotFound, err, "")
}

// newRunner assembles the batch pipeline for the resolved vault. The
// returned cleanup closes the backend client, the embedding cache, and
// releases the cache lock.
func newRunner(ctx context.Context, dryRun bool) (*pipeline.Runner, func(), error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	vaultCfg := store.Config()

	gen, emb, closeBackend, err := newBackend(ctx)
	if err != nil {
		return nil, nil, err
	}

	// One batch run per vault at a time: a second concurrent run would
	// interleave cache writes and note rewrites.
	lock, err := index.AcquireLock(getVaultPath())
	if err != nil {
		if errors.Is(err, index.ErrIndexLocked) {
			closeBackend()
			return nil, nil, err
		}
		// An unusable lock file degrades the same way an unusable cache
		// does; the cache open below will warn.
		lock = nil
	}

	// The embedding cache is optional: commands still run without it, each
	// run just re-embeds everything.
	var cache *index.Database
	db, err := index.Open(getVaultPath())
	if err == nil {
		cache = db
	} else if !isJSONOutput() {
		fmt.Fprintf(os.Stderr, "warning: embedding cache unavailable: %v\n", err)
	}

	cleanup := func() {
		closeBackend()
		if cache != nil {
			_ = cache.Close()
		}
		_ = lock.Release()
	}

	runner := &pipeline.Runner{
		Store:         store,
		Generator:     gen,
		Finder:        link.NewFinder(emb, cache),
		Weights:       scoreWeights(vaultCfg),
		Thresholds:    promoteThresholds(vaultCfg),
		Concurrency:   vaultCfg.GetConcurrency(),
		AITimeout:     vaultCfg.GetAITimeout(),
		MaxTags:       vaultCfg.GetMaxTags(),
		LinkThreshold: vaultCfg.GetLinkThreshold(),
		AddLinks:      true,
		DryRun:        dryRun,
	}
	return runner, cleanup, nil
}
