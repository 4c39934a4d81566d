package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deo-labs/deoai/src/ai/core"
	"github.com/deo-labs/deoai/src/webclient"
)

func init() {
	core.RegisterProvider("openai", newClient, "gpt4omini")
}

const defaultBaseURL = "https://api.openai.com"

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	baseURL := defaultBaseURL
	if cfg.Extra != nil && cfg.Extra["base_url"] != "" {
		baseURL = strings.TrimRight(cfg.Extra["base_url"], "/")
	}

	return &client{
		apiKey:     cfg.OpenAIKey,
		baseURL:    baseURL,
		httpClient: webclient.NewDefault(240 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature:         orFloat(cfg.Temperature, 1),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 16000),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Parameters  map[string]any `json:"parameters,omitempty"`
	} `json:"function"`
}

type completionResponse struct {
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *client) Chat(ctx context.Context, messages []core.Message, tools []core.ToolDef, opts core.Options) (core.Reply, error) {
	merged := c.merge(opts)

	wireMsgs := make([]wireMessage, 0, len(messages)+1)
	if merged.SystemPrompt != "" && (len(messages) == 0 || messages[0].Role != "system") {
		wireMsgs = append(wireMsgs, wireMessage{Role: "system", Content: merged.SystemPrompt})
	}
	for _, m := range messages {
		wireMsgs = append(wireMsgs, toWire(m))
	}

	payload := map[string]any{
		"model":                 merged.Model,
		"messages":              wireMsgs,
		"temperature":           merged.Temperature,
		"max_completion_tokens": merged.MaxCompletionTokens,
	}
	if len(tools) > 0 {
		payload["tools"] = buildToolsPayload(tools)
		payload["tool_choice"] = "auto"
	}

	body, err := c.post(ctx, "/v1/chat/completions", payload)
	if err != nil {
		return core.Reply{}, err
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return core.Reply{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.Reply{}, fmt.Errorf("openai: no response choices")
	}

	msg := result.Choices[0].Message
	reply := core.Reply{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return reply, nil
}

func (c *client) Complete(ctx context.Context, system, user string, opts core.Options) (string, error) {
	if system == "" {
		system = c.merge(opts).SystemPrompt
	}
	msgs := []core.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	reply, err := c.Chat(ctx, msgs, nil, opts)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (c *client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	bodyBytes, _ := json.Marshal(payload)
	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		// Prefer the structured error message when the provider sent one.
		var errResp completionResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("openai API error: %s (type: %s, code: %s)",
				errResp.Error.Message, errResp.Error.Type, errResp.Error.Code)
		}
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	return body, nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}

func toWire(m core.Message) wireMessage {
	w := wireMessage{Role: m.Role, Content: m.Content, ToolCallID: m.ToolCallID}
	for _, tc := range m.ToolCalls {
		wtc := wireToolCall{ID: tc.ID, Type: "function"}
		wtc.Function.Name = tc.Name
		wtc.Function.Arguments = tc.Arguments
		w.ToolCalls = append(w.ToolCalls, wtc)
	}
	return w
}

func buildToolsPayload(tools []core.ToolDef) []wireTool {
	out := make([]wireTool, 0, len(tools))
	for _, t := range tools {
		wt := wireTool{Type: "function"}
		wt.Function.Name = t.Name
		wt.Function.Description = t.Description
		wt.Function.Parameters = t.Parameters
		out = append(out, wt)
	}
	return out
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
