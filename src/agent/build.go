package agent

import (
	"github.com/deo-labs/deoai/src/ai/core"
	shared "github.com/deo-labs/deoai/src/config"
	"github.com/deo-labs/deoai/src/optimizer"
	"github.com/deo-labs/deoai/src/resolver"
	"github.com/deo-labs/deoai/src/snapshot"
)

// NewDefaultFactory wires the standard Deo AI agent: Snapshot directory +
// fetcher, fuzzy resolver, optimizer pipeline, and the registered AI provider.
// proposalCount sets the per-process default for how many proposals the
// optimizer analyzes when the caller does not say; zero keeps the standard
// default. The returned factory builds one agent per credential; an empty
// apiKey uses the configured default. Callers must blank-import
// src/ai/providers.
func NewDefaultFactory(aiCfg shared.AI, snapshotEndpoint string, proposalCount int) func(apiKey string) (*Agent, error) {
	hub := snapshot.NewClient(snapshotEndpoint)
	res := resolver.New(hub)

	return func(apiKey string) (*Agent, error) {
		cfg := aiCfg
		if apiKey != "" {
			cfg.OpenAIKey = apiKey
		}
		client, err := core.NewClient(core.FactoryConfig{
			Provider:     cfg.Provider,
			Model:        cfg.Model,
			OpenAIKey:    cfg.OpenAIKey,
			ClaudeKey:    cfg.ClaudeKey,
			SystemPrompt: SystemPrompt,
		})
		if err != nil {
			return nil, err
		}

		pipeline := optimizer.NewTool(res, hub, client)
		pipeline.SetDefaultProposalCount(proposalCount)
		return New(client, core.Options{Model: cfg.Model}, OptimizerTool(pipeline)), nil
	}
}
