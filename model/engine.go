package model

import (
	"context"

	"github.com/hupe1980/agentswarm/async"
	"github.com/hupe1980/agentswarm/core"
)

// ExecuteFunc runs a tool with the parsed model arguments.
type ExecuteFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is a tool as seen by an Engine. A nil Execute marks a tool the engine
// must not run: a call to it stops generation and is returned unhandled.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Execute     ExecuteFunc
}

// Definition returns the declaration advertised to the model.
func (t Tool) Definition() ToolDefinition {
	return NewToolDefinition(t.Name, t.Description, t.Parameters)
}

// StepResult describes one model call plus the tool executions it triggered.
type StepResult struct {
	FinishReason     FinishReason
	Text             string
	ToolCalls        []core.ToolCallPart
	ToolResults      []core.ToolResultPart
	ResponseMessages []core.Message // assistant message, then tool message if any
	Usage            *TokenUsage
}

// StepFinishFunc is invoked after every step.
type StepFinishFunc func(ctx context.Context, step StepResult) error

// Request is the input of a multi-step generation.
type Request struct {
	Model        string
	System       string
	Tools        map[string]Tool
	MaxSteps     int
	ToolChoice   ToolChoice
	OnStepFinish StepFinishFunc
	Messages     []core.Message
}

// Result is the outcome of a multi-step generation. ToolCalls and
// ToolResults refer to the final step; a call in ToolCalls without a
// matching entry in ToolResults was not handled.
type Result struct {
	FinishReason     FinishReason
	Text             string
	ResponseMessages []core.Message
	ToolCalls        []core.ToolCallPart
	ToolResults      []core.ToolResultPart
	Steps            []StepResult
}

// UnhandledToolCalls returns the final-step calls that have no result, in
// emission order.
func (r *Result) UnhandledToolCalls() []core.ToolCallPart {
	handled := make(map[string]struct{}, len(r.ToolResults))
	for _, tr := range r.ToolResults {
		handled[tr.ToolCallID] = struct{}{}
	}

	var out []core.ToolCallPart

	for _, tc := range r.ToolCalls {
		if _, ok := handled[tc.ID]; !ok {
			out = append(out, tc)
		}
	}

	return out
}

// Engine runs multi-step generations.
type Engine interface {
	// Generate blocks until the generation finishes.
	Generate(ctx context.Context, req Request) (*Result, error)
	// Stream starts the generation and returns immediately. The caller must
	// drain Parts; Result resolves once the generation finished.
	Stream(ctx context.Context, req Request) (*StreamResult, error)
}

// StreamPartType discriminates StreamPart.
type StreamPartType string

const (
	StreamPartTextDelta  StreamPartType = "text-delta"
	StreamPartToolCall   StreamPartType = "tool-call"
	StreamPartToolResult StreamPartType = "tool-result"
	StreamPartStepFinish StreamPartType = "step-finish"
	StreamPartFinish     StreamPartType = "finish"
	StreamPartError      StreamPartType = "error"
)

// StreamPart is one element of a streamed generation. Only the fields
// matching Type are set.
type StreamPart struct {
	Type         StreamPartType       `json:"type"`
	TextDelta    string               `json:"text_delta,omitempty"`
	ToolCall     *core.ToolCallPart   `json:"tool_call,omitempty"`
	ToolResult   *core.ToolResultPart `json:"tool_result,omitempty"`
	FinishReason FinishReason         `json:"finish_reason,omitempty"`
	Err          error                `json:"-"`
}

// StreamResult is a live generation: a channel of parts plus the final
// Result once available.
type StreamResult struct {
	Parts <-chan StreamPart

	result *async.Future[*Result]
}

// NewStreamResult binds a part channel to the future resolving its Result.
func NewStreamResult(parts <-chan StreamPart, result *async.Future[*Result]) *StreamResult {
	return &StreamResult{Parts: parts, result: result}
}

// Result waits for the generation to finish.
func (s *StreamResult) Result(ctx context.Context) (*Result, error) {
	return s.result.Wait(ctx)
}
