package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deo-labs/deoai/src/ai/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) core.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newClient(core.FactoryConfig{
		OpenAIKey: "sk-test",
		Extra:     map[string]string{"base_url": srv.URL},
	})
	require.NoError(t, err)
	return c
}

func completionJSON(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `},"finish_reason":"stop"}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := newClient(core.FactoryConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestComplete(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionJSON("pong")))
	})

	out, err := c.Complete(context.Background(), "you are a test", "ping", core.Options{})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "you are a test", first["content"])
	_, hasTools := got["tools"]
	assert.False(t, hasTools)
}

func TestChatSendsTools(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[` +
			`{"id":"call-9","type":"function","function":{"name":"dao_proposal_optimizer","arguments":"{\"dao_name\":\"aave\"}"}}` +
			`]},"finish_reason":"tool_calls"}]}`))
	})

	tools := []core.ToolDef{{
		Name:        "dao_proposal_optimizer",
		Description: "optimize a proposal",
		Parameters:  map[string]any{"type": "object"},
	}}
	reply, err := c.Chat(context.Background(), []core.Message{{Role: "user", Content: "optimize"}}, tools, core.Options{})
	require.NoError(t, err)

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "call-9", reply.ToolCalls[0].ID)
	assert.Equal(t, "dao_proposal_optimizer", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"dao_name":"aave"}`, reply.ToolCalls[0].Arguments)

	assert.Equal(t, "auto", got["tool_choice"])
	wireTools := got["tools"].([]any)
	require.Len(t, wireTools, 1)
	fn := wireTools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "dao_proposal_optimizer", fn["name"])
}

func TestChatToolResultRoundTrip(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionJSON("done")))
	})

	msgs := []core.Message{
		{Role: "user", Content: "optimize"},
		{Role: "assistant", ToolCalls: []core.ToolCall{{ID: "call-9", Name: "dao_proposal_optimizer", Arguments: "{}"}}},
		{Role: "tool", ToolCallID: "call-9", Content: "tool output"},
	}
	_, err := c.Chat(context.Background(), msgs, nil, core.Options{})
	require.NoError(t, err)

	wireMsgs := got["messages"].([]any)
	// Default system prompt is empty here, so nothing is prepended.
	require.Len(t, wireMsgs, 3)
	toolMsg := wireMsgs[2].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call-9", toolMsg["tool_call_id"])
	assert.Equal(t, "tool output", toolMsg["content"])
}

func TestChatStructuredError(t *testing.T) {
	t.Parallel()

	// 400 is not retried, so the test does not sit through backoff delays.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})

	_, err := c.Complete(context.Background(), "", "hi", core.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You exceeded your current quota")
	assert.Contains(t, err.Error(), "insufficient_quota")
}

func TestChatNoChoices(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Complete(context.Background(), "", "hi", core.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestMergeOverrides(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionJSON("ok")))
	})

	_, err := c.Chat(context.Background(), []core.Message{{Role: "user", Content: "hi"}}, nil,
		core.Options{Model: "gpt-4o", Temperature: 0.2, MaxCompletionTokens: 512})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.InDelta(t, 0.2, got["temperature"], 1e-9)
	assert.EqualValues(t, 512, got["max_completion_tokens"])
}
