package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deo-labs/deoai/src/ai/core"
	"github.com/deo-labs/deoai/src/optimizer"
)

// Tool is a capability registered with the agent: name, description and input
// schema are offered to the model, which decides when to call the handler.
// Intent detection stays model-driven; nothing here inspects user text.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(ctx context.Context, args map[string]any) (string, error)
}

func (t Tool) def() core.ToolDef {
	return core.ToolDef{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
}

// OptimizerTool wraps the dao_proposal_optimizer pipeline as an agent capability.
func OptimizerTool(pipeline *optimizer.Tool) Tool {
	return Tool{
		Name: "dao_proposal_optimizer",
		Description: "Optimizes a DAO proposal based on analysis of historical DAO data. " +
			"Requires the DAO name, the initial proposal text, and optionally the number of recent proposals to analyze.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"dao_name": map[string]any{
					"type":        "string",
					"description": "Name of the DAO",
				},
				"initial_proposal": map[string]any{
					"type":        "string",
					"description": "The initial proposal to optimize",
				},
				"num_proposals": map[string]any{
					"type":        "integer",
					"description": "Number of recent proposals to analyze",
				},
			},
			"required": []string{"dao_name", "initial_proposal"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			daoName := strings.TrimSpace(stringArg(args, "dao_name"))
			proposal := stringArg(args, "initial_proposal")
			if daoName == "" || proposal == "" {
				return "", fmt.Errorf("dao_proposal_optimizer: dao_name and initial_proposal are required")
			}
			return pipeline.Run(ctx, daoName, proposal, intArg(args, "num_proposals"))
		},
	}
}

func decodeArguments(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
