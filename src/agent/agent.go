// Package agent runs the conversational loop: chat completions over session
// history with registered tool capabilities, executing model-issued tool calls
// and splitting composite tool results into hidden and visible segments.
package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/deo-labs/deoai/src/ai/core"
	"github.com/deo-labs/deoai/src/optimizer"
)

// SystemPrompt steers the assistant and delegates tool-use decisions to the model.
const SystemPrompt = "You are a helpful assistant who provides responses to user questions based on the context in " +
	"cryptocurrency, blockchain and web3 only. If you are asked to optimize a DAO proposal, use " +
	"the 'dao_proposal_optimizer' tool. If the user did not provide the three inputs (ie. the " +
	"name of the DAO to submit the proposal to, the DAO proposal to optimize and the number of " +
	"recent DAO proposals from Snapshot to analyze) required to use the 'dao_proposal_optimizer' " +
	"tool, then ask the user to provide any of these three required inputs which are missing. " +
	"If the 'dao_proposal_optimizer' tool is used, only output what is outputted from this tool."

// maxToolRounds bounds how many tool-execution rounds one user turn may take.
const maxToolRounds = 5

type Agent struct {
	ai          core.Client
	tools       []Tool
	toolsByName map[string]Tool
	opts        core.Options
}

func New(ai core.Client, opts core.Options, tools ...Tool) *Agent {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = SystemPrompt
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}
	return &Agent{ai: ai, tools: tools, toolsByName: byName, opts: opts}
}

// Respond handles one user turn: appends the user message, iterates the model
// with tool definitions until it produces final text, records the hidden
// analysis segment (if any) in the session as a system message, and returns the
// visible reply.
// A failed turn leaves the session unchanged, so callers can retry the same
// input (for example after swapping in a fresh credential).
func (a *Agent) Respond(ctx context.Context, s *Session, userText string) (string, error) {
	msgs := make([]core.Message, 0, len(s.Messages)+2)
	msgs = append(msgs, core.Message{Role: "system", Content: a.opts.SystemPrompt})
	msgs = append(msgs, s.Messages...)
	msgs = append(msgs, core.Message{Role: "user", Content: userText})

	var final string
	defs := a.toolDefs()
	for round := 0; ; round++ {
		reply, err := a.ai.Chat(ctx, msgs, defs, a.opts)
		if err != nil {
			return "", err
		}
		if len(reply.ToolCalls) == 0 {
			final = reply.Content
			break
		}
		if round >= maxToolRounds {
			return "", fmt.Errorf("agent: tool rounds exceeded %d", maxToolRounds)
		}

		msgs = append(msgs, core.Message{Role: "assistant", Content: reply.Content, ToolCalls: reply.ToolCalls})
		for _, call := range reply.ToolCalls {
			out, err := a.executeTool(ctx, call)
			if err != nil {
				// Tool failures abort the whole turn: no partial results, one
				// uniform error for the front end to classify.
				return "", err
			}
			msgs = append(msgs, core.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    out,
			})
		}
	}

	s.append("user", userText)

	// A composite tool result carries a hidden analysis: keep it in history as
	// a system record, show only the visible segment.
	if hidden, visible, ok := optimizer.Split(final); ok {
		s.append("system", hidden)
		final = visible
	}

	s.append("assistant", final)
	return final, nil
}

// executeTool dispatches one model-issued call. The pipeline already flattens
// stage failures into one descriptive error; it is passed through unchanged.
func (a *Agent) executeTool(ctx context.Context, call core.ToolCall) (string, error) {
	tool, ok := a.toolsByName[call.Name]
	if !ok {
		return "", fmt.Errorf("agent: unknown tool %q", call.Name)
	}
	args, err := decodeArguments(call.Arguments)
	if err != nil {
		log.Printf("agent: tool %s arg parse error: %v", call.Name, err)
		return "", fmt.Errorf("agent: tool %s: invalid arguments: %w", call.Name, err)
	}
	out, err := tool.Handler(ctx, args)
	if err != nil {
		log.Printf("agent: tool %s error: %v", call.Name, err)
		return "", err
	}
	return out, nil
}

func (a *Agent) toolDefs() []core.ToolDef {
	if len(a.tools) == 0 {
		return nil
	}
	defs := make([]core.ToolDef, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, t.def())
	}
	return defs
}
