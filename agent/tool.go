package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
)

// ContextParam is the reserved parameter name through which a tool receives
// the shared conversation context. It is stripped from the schema the model
// sees and filled in at call time.
const ContextParam = "swarmContext"

// ErrMalformedTool is returned for tools whose kind and executor disagree.
var ErrMalformedTool = errors.New("malformed tool")

// Kind tags the Tool variant.
type Kind int

const (
	// KindFunction tools are executed by the model engine.
	KindFunction Kind = iota + 1
	// KindHandover tools transfer control to another agent.
	KindHandover
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindHandover:
		return "handover"
	default:
		return "unknown"
	}
}

// FunctionResult is the outcome of a function tool. Context, when non-empty,
// is merged into the shared context; only Result reaches the model.
type FunctionResult struct {
	Result  any
	Context core.Context
}

// HandoverResult names the agent taking over and an optional context patch.
type HandoverResult struct {
	Agent   *Agent
	Context core.Context
}

// FunctionFunc executes a function tool.
type FunctionFunc func(ctx context.Context, args map[string]any) (FunctionResult, error)

// HandoverFunc executes a handover tool. args holds the current context
// overlaid with the model generated arguments.
type HandoverFunc func(ctx context.Context, args map[string]any) (HandoverResult, error)

// Tool is a tagged union over function and handover tools. Exactly one of
// Function or Handover is set, matching Kind.
type Tool struct {
	Kind        Kind
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
	Function    FunctionFunc
	Handover    HandoverFunc
}

// NewFunctionTool constructs a function tool from explicit schema and function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(ctx context.Context, args map[string]any) (FunctionResult, error) {
//	    return FunctionResult{Result: args["a"].(float64) + args["b"].(float64)}, nil
//	  },
//	)
func NewFunctionTool(name, description string, parameters map[string]any, fn FunctionFunc) Tool {
	return Tool{
		Kind:        KindFunction,
		Name:        name,
		Description: description,
		Parameters:  normalizeSchema(parameters),
		Function:    fn,
	}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection (json and description tags). Declare a field tagged
// `json:"swarmContext"` to receive the shared context.
func NewFunctionToolFromStruct(name, description string, structType any, fn FunctionFunc) Tool {
	return NewFunctionTool(name, description, util.CreateSchema(structType), fn)
}

// NewHandoverTool constructs a handover tool.
func NewHandoverTool(name, description string, parameters map[string]any, fn HandoverFunc) Tool {
	return Tool{
		Kind:        KindHandover,
		Name:        name,
		Description: description,
		Parameters:  normalizeSchema(parameters),
		Handover:    fn,
	}
}

// HandoverTo builds the standard handover tool "transfer_to_<name>" that
// passes control to target without changing the context.
func HandoverTo(target *Agent) Tool {
	desc := fmt.Sprintf("Transfer the conversation to the agent %s.", target.Name)
	if target.Description != "" {
		desc += " " + target.Description
	}

	return NewHandoverTool(HandoverToolName(target.Name), desc, nil,
		func(context.Context, map[string]any) (HandoverResult, error) {
			return HandoverResult{Agent: target}, nil
		})
}

// HandoverToolName returns the tool name HandoverTo uses for an agent name.
func HandoverToolName(agentName string) string {
	return "transfer_to_" + util.SnakeCase(agentName)
}

// Validate checks that the tool's kind and executor agree.
func (t Tool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrMalformedTool)
	}

	switch t.Kind {
	case KindFunction:
		if t.Function == nil || t.Handover != nil {
			return fmt.Errorf("%w: function tool %q needs exactly a Function", ErrMalformedTool, t.Name)
		}
	case KindHandover:
		if t.Handover == nil || t.Function != nil {
			return fmt.Errorf("%w: handover tool %q needs exactly a Handover", ErrMalformedTool, t.Name)
		}
	default:
		return fmt.Errorf("%w: tool %q has unknown kind %d", ErrMalformedTool, t.Name, t.Kind)
	}

	return nil
}

// WantsContext reports whether the tool declares ContextParam.
func (t Tool) WantsContext() bool { return util.HasProperty(t.Parameters, ContextParam) }

func normalizeSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	return schema
}
