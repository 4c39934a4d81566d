package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deo-labs/deoai/src/ai/core"
	"github.com/deo-labs/deoai/src/optimizer"
)

// scriptedAI returns canned replies in order and records what it was sent.
type scriptedAI struct {
	replies  []core.Reply
	err      error
	calls    int
	lastMsgs []core.Message
	lastDefs []core.ToolDef
}

func (s *scriptedAI) Chat(ctx context.Context, messages []core.Message, tools []core.ToolDef, opts core.Options) (core.Reply, error) {
	s.lastMsgs = messages
	s.lastDefs = tools
	if s.err != nil {
		return core.Reply{}, s.err
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func (s *scriptedAI) Complete(ctx context.Context, system, user string, opts core.Options) (string, error) {
	return "", errors.New("not used")
}

func echoTool(name string, out string, err error) (Tool, *int) {
	calls := new(int)
	return Tool{
		Name:        name,
		Description: "test tool",
		Parameters:  map[string]any{"type": "object"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			*calls++
			return out, err
		},
	}, calls
}

func TestRespondPlainReply(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{replies: []core.Reply{{Content: "gm! how can I help?"}}}
	tool, calls := echoTool("dao_proposal_optimizer", "", nil)
	ag := New(ai, core.Options{}, tool)
	sess := NewSession()

	reply, err := ag.Respond(context.Background(), sess, "gm")
	require.NoError(t, err)
	assert.Equal(t, "gm! how can I help?", reply)
	assert.Equal(t, 0, *calls)

	// History: user turn then assistant turn; system prompt is not stored.
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "assistant", sess.Messages[1].Role)

	// The tool was still offered to the model.
	require.Len(t, ai.lastDefs, 1)
	assert.Equal(t, "dao_proposal_optimizer", ai.lastDefs[0].Name)
	assert.Equal(t, "system", ai.lastMsgs[0].Role)
	assert.Equal(t, SystemPrompt, ai.lastMsgs[0].Content)
}

func TestRespondRunsToolAndSplitsResult(t *testing.T) {
	t.Parallel()

	composite := optimizer.Compose("hidden analysis", "optimized text")
	ai := &scriptedAI{replies: []core.Reply{
		{ToolCalls: []core.ToolCall{{
			ID:        "call-1",
			Name:      "dao_proposal_optimizer",
			Arguments: `{"dao_name":"uniswap","initial_proposal":"raise fees"}`,
		}}},
		{Content: composite},
	}}
	tool, calls := echoTool("dao_proposal_optimizer", composite, nil)
	ag := New(ai, core.Options{}, tool)
	sess := NewSession()

	reply, err := ag.Respond(context.Background(), sess, "optimize my proposal for uniswap: raise fees, analyze 25")
	require.NoError(t, err)
	assert.Equal(t, "optimized text", reply)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 2, ai.calls)

	// Hidden analysis is recorded as a system message; the visible segment is
	// the assistant turn.
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "system", sess.Messages[1].Role)
	assert.Equal(t, "hidden analysis", sess.Messages[1].Content)
	assert.Equal(t, "assistant", sess.Messages[2].Role)
	assert.Equal(t, "optimized text", sess.Messages[2].Content)

	// The second model call saw the tool result message.
	var sawToolMsg bool
	for _, m := range ai.lastMsgs {
		if m.Role == "tool" && m.ToolCallID == "call-1" {
			sawToolMsg = true
			assert.Equal(t, composite, m.Content)
		}
	}
	assert.True(t, sawToolMsg)
}

func TestRespondToolFailureAbortsTurn(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{replies: []core.Reply{
		{ToolCalls: []core.ToolCall{{ID: "c1", Name: "dao_proposal_optimizer", Arguments: `{}`}}},
	}}
	toolErr := errors.New("dao_proposal_optimizer: DAO \"nope\" not found")
	tool, _ := echoTool("dao_proposal_optimizer", "", toolErr)
	ag := New(ai, core.Options{}, tool)
	sess := NewSession()

	_, err := ag.Respond(context.Background(), sess, "optimize")
	require.Error(t, err)
	assert.ErrorIs(t, err, toolErr)

	// Failed turns leave the session untouched so the same input can be retried.
	assert.Empty(t, sess.Messages)
}

func TestRespondUnknownTool(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{replies: []core.Reply{
		{ToolCalls: []core.ToolCall{{ID: "c1", Name: "mystery_tool", Arguments: `{}`}}},
	}}
	ag := New(ai, core.Options{})

	_, err := ag.Respond(context.Background(), NewSession(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRespondModelError(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{err: errors.New("openai API error: insufficient_quota")}
	ag := New(ai, core.Options{})
	sess := NewSession()

	_, err := ag.Respond(context.Background(), sess, "hi")
	require.Error(t, err)
	assert.Empty(t, sess.Messages)
}

func TestDecodeArguments(t *testing.T) {
	t.Parallel()

	args, err := decodeArguments(`{"dao_name":"aave","num_proposals":10}`)
	require.NoError(t, err)
	assert.Equal(t, "aave", stringArg(args, "dao_name"))
	assert.Equal(t, 10, intArg(args, "num_proposals"))
	assert.Equal(t, 0, intArg(args, "missing"))

	args, err = decodeArguments("")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = decodeArguments("null")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = decodeArguments("{broken")
	require.Error(t, err)
}
