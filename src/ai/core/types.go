package core

import "context"

// Message represents a single chat turn. Tool-call fields are only populated on
// assistant turns that request tools and on the "tool" turns that answer them.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a model-issued request to run a registered tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDef describes a callable capability offered to the model. Parameters is a
// JSON-schema object in the wire shape the provider expects.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Reply is a single completion: either final text or a set of tool calls the
// caller must execute and feed back.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
}

// Client is a provider-agnostic interface for the LLM operations we need.
type Client interface {
	// Chat runs one completion over full message history with optional tools.
	Chat(ctx context.Context, messages []Message, tools []ToolDef, opts Options) (Reply, error)
	// Complete is a convenience for single system+user prompts (pipeline stages).
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
}
