package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/lead-intel/internal/config"
	"github.com/jonathan/lead-intel/internal/kv"
	"github.com/jonathan/lead-intel/internal/leadstore"
	"github.com/jonathan/lead-intel/internal/llm"
	"github.com/jonathan/lead-intel/internal/scoring"
)

// openStore opens the configured key-value backend and the lead store over it.
func openStore(ctx context.Context, cfg *config.Config) (*leadstore.Store, kv.Store, error) {
	driver, err := kv.ParseDriver(cfg.Storage.Driver)
	if err != nil {
		return nil, nil, err
	}
	backend, err := kv.Open(ctx, kv.Options{
		Driver:      driver,
		Path:        cfg.Storage.Path,
		DatabaseURL: cfg.Storage.DatabaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}
	return leadstore.New(backend, leadstore.Options{}), backend, nil
}

// newScorer builds the scorer. Without an API key every score falls back,
// which keeps intake working while the model is unavailable.
func newScorer(ctx context.Context, cfg *config.Config) (*scoring.Scorer, func(), error) {
	opts := scoring.Options{Tier: llm.TierStandard, Timeout: cfg.ScoringTimeout()}

	if cfg.LLM.APIKey == "" {
		log.Printf("[scoring] GEMINI_API_KEY is not set; leads will receive the fallback score")
		return scoring.New(nil, opts), func() {}, nil
	}

	llmCfg := llm.DefaultConfig()
	if cfg.LLM.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.LLM.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	closer := func() {
		if err := client.Close(); err != nil {
			log.Printf("[scoring] Failed to close LLM client: %v", err)
		}
	}
	return scoring.New(client, opts), closer, nil
}
