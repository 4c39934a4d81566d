// Package optimizer implements the dao_proposal_optimizer pipeline: resolve a
// DAO name, fetch its governance history, analyze it, normalize the user's
// proposal to English, rewrite it against the analysis, and compose the
// marker-delimited result for the tool boundary.
package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deo-labs/deoai/src/ai/core"
	"github.com/deo-labs/deoai/src/snapshot"
)

// DefaultProposalCount is how many recent proposals are analyzed when the
// caller does not say. No upper bound is enforced; very large counts can hit
// provider token limits and the user is expected to lower the number.
const DefaultProposalCount = 25

// SpaceResolver turns a free-text DAO name into a canonical space id.
type SpaceResolver interface {
	Resolve(ctx context.Context, daoName string) (string, error)
}

// DataFetcher retrieves a space's metadata and recent proposals.
type DataFetcher interface {
	SpaceWithProposals(ctx context.Context, id string, n int) (*snapshot.SpaceDetail, []snapshot.Proposal, error)
}

// Tool is the pipeline orchestrator. All stages run strictly sequentially;
// any stage failure aborts the run with no partial result.
type Tool struct {
	resolver     SpaceResolver
	fetcher      DataFetcher
	ai           core.Client
	opts         core.Options
	defaultCount int
}

func NewTool(resolver SpaceResolver, fetcher DataFetcher, ai core.Client) *Tool {
	return &Tool{resolver: resolver, fetcher: fetcher, ai: ai, defaultCount: DefaultProposalCount}
}

// SetDefaultProposalCount overrides how many proposals are analyzed when the
// caller omits the count. Non-positive values are ignored.
func (t *Tool) SetDefaultProposalCount(n int) {
	if n > 0 {
		t.defaultCount = n
	}
}

// Run executes resolve → fetch → analyze → translate → optimize and composes
// the tagged result string. Every failure surfaces as one uniform tool error
// carrying the originating message.
func (t *Tool) Run(ctx context.Context, daoName, initialProposal string, numProposals int) (string, error) {
	if numProposals <= 0 {
		numProposals = t.defaultCount
	}
	if numProposals <= 0 {
		numProposals = DefaultProposalCount
	}
	if t.ai == nil {
		return "", toolError(errors.New("AI client not configured"))
	}

	spaceID, err := t.resolver.Resolve(ctx, daoName)
	if err != nil {
		return "", toolError(err)
	}

	detail, proposals, err := t.fetcher.SpaceWithProposals(ctx, spaceID, numProposals)
	if err != nil {
		return "", toolError(err)
	}

	analysis, err := t.analyze(ctx, detail, proposals)
	if err != nil {
		return "", toolError(err)
	}

	english, err := t.translate(ctx, initialProposal)
	if err != nil {
		return "", toolError(err)
	}

	optimized, err := t.optimize(ctx, english, analysis)
	if err != nil {
		return "", toolError(err)
	}

	return Compose(analysis, optimized), nil
}

func (t *Tool) analyze(ctx context.Context, detail *snapshot.SpaceDetail, proposals []snapshot.Proposal) (string, error) {
	spaceInfo, err := json.Marshal(detail)
	if err != nil {
		return "", fmt.Errorf("serialize space info: %w", err)
	}
	proposalsInfo, err := json.Marshal(proposals)
	if err != nil {
		return "", fmt.Errorf("serialize proposals: %w", err)
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, spaceInfo, proposalsInfo)
	out, err := t.ai.Complete(ctx, analysisSystemPrompt, prompt, t.opts)
	if err != nil {
		return "", fmt.Errorf("analyzing DAO data: %w", err)
	}
	return out, nil
}

// translate normalizes the proposal to English. Pass-through for English input
// is delegated to the model; the output is trusted as given.
func (t *Tool) translate(ctx context.Context, proposal string) (string, error) {
	prompt := fmt.Sprintf(translationPromptTemplate, proposal)
	out, err := t.ai.Complete(ctx, translationSystemPrompt, prompt, t.opts)
	if err != nil {
		return "", fmt.Errorf("translating proposal: %w", err)
	}
	return out, nil
}

func (t *Tool) optimize(ctx context.Context, englishProposal, analysis string) (string, error) {
	prompt := fmt.Sprintf(optimizePromptTemplate, englishProposal, analysis)
	out, err := t.ai.Complete(ctx, optimizeSystemPrompt, prompt, t.opts)
	if err != nil {
		return "", fmt.Errorf("optimizing proposal: %w", err)
	}
	return out, nil
}

func toolError(err error) error {
	return fmt.Errorf("dao_proposal_optimizer: %w", err)
}
