package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
)

// NewGetContextTool returns a function tool reading one key of the shared
// context. A missing key yields {"found": false}.
func NewGetContextTool() agent.Tool {
	return agent.NewFunctionTool(
		"get_context",
		"Read a value from the shared conversation context by key.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key":              map[string]any{"type": "string", "description": "Context key to read"},
				agent.ContextParam: map[string]any{"type": "object"},
			},
			"required": []string{"key", agent.ContextParam},
		},
		func(_ context.Context, args map[string]any) (agent.FunctionResult, error) {
			key, err := stringArg(args, "key")
			if err != nil {
				return agent.FunctionResult{}, err
			}

			c, _ := args[agent.ContextParam].(core.Context)

			v, ok := c[key]
			if !ok {
				return agent.FunctionResult{Result: map[string]any{"key": key, "found": false}}, nil
			}

			return agent.FunctionResult{Result: map[string]any{"key": key, "found": true, "value": v}}, nil
		},
	)
}

// NewSetContextTool returns a function tool writing one key of the shared
// context.
func NewSetContextTool() agent.Tool {
	return agent.NewFunctionTool(
		"set_context",
		"Store a value in the shared conversation context so other agents can use it.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key":   map[string]any{"type": "string", "description": "Context key to write"},
				"value": map[string]any{"description": "Value to store (any JSON value)"},
			},
			"required": []string{"key", "value"},
		},
		func(_ context.Context, args map[string]any) (agent.FunctionResult, error) {
			key, err := stringArg(args, "key")
			if err != nil {
				return agent.FunctionResult{}, err
			}

			return agent.FunctionResult{
				Result:  map[string]any{"key": key, "stored": true},
				Context: core.Context{key: args["value"]},
			}, nil
		},
	)
}

func stringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required field '%s'", name)
	}

	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("field '%s' must be non-empty string", name)
	}

	return s, nil
}
