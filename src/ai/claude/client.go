package claude

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
	core.RegisterProvider("claude", newClient, "anthropic")
}

const defaultBaseURL = "https://api.anthropic.com"

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("claude: API key not configured")
	}
	baseURL := defaultBaseURL
	if cfg.Extra != nil && cfg.Extra["base_url"] != "" {
		baseURL = strings.TrimRight(cfg.Extra["base_url"], "/")
	}
	return &client{
		apiKey:     cfg.ClaudeKey,
		baseURL:    baseURL,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "claude-3-haiku-20240307"),
			Temperature:         orFloat(cfg.Temperature, 0.2),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 4000),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

// Chat flattens the history into a Messages API call. Tool use is not wired for
// this provider; tool definitions are ignored and the reply is always final text.
func (c *client) Chat(ctx context.Context, messages []core.Message, tools []core.ToolDef, opts core.Options) (core.Reply, error) {
	merged := c.merge(opts)

	wire := make([]map[string]string, 0, len(messages))
	system := merged.SystemPrompt
	for _, m := range messages {
		switch m.Role {
		case "system":
			// Claude takes a single top-level system string.
			if system == "" {
				system = m.Content
			} else {
				system += "\n\n" + m.Content
			}
		case "user", "assistant":
			wire = append(wire, map[string]string{"role": m.Role, "content": m.Content})
		}
	}

	reqBody := map[string]any{
		"model":       merged.Model,
		"messages":    wire,
		"system":      system,
		"max_tokens":  merged.MaxCompletionTokens,
		"temperature": merged.Temperature,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewBuffer(b))
	if err != nil {
		return core.Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.Reply{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Reply{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return core.Reply{}, fmt.Errorf("claude API error: %s", string(body))
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return core.Reply{}, err
	}
	if len(result.Content) == 0 {
		return core.Reply{}, fmt.Errorf("no response from Claude")
	}
	return core.Reply{Content: result.Content[0].Text}, nil
}

func (c *client) Complete(ctx context.Context, system, user string, opts core.Options) (string, error) {
	if system != "" {
		opts.SystemPrompt = system
	}
	reply, err := c.Chat(ctx, []core.Message{{Role: "user", Content: user}}, nil, opts)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
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
