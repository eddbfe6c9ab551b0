package engine

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrUnknownTool is returned when the model calls a tool that was not offered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments is returned when tool call arguments cannot be decoded or validated.
	ErrInvalidArguments = errors.New("invalid tool arguments")
	// ErrNoResponse is returned when a provider finishes without a final response.
	ErrNoResponse = errors.New("provider returned no final response")
)

// ToolError wraps a failure of a tool executor.
type ToolError struct {
	Tool   string `json:"tool"`
	CallID string `json:"call_id"`
	Err    error  `json:"-"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool error in %s (call %s): %v", e.Tool, e.CallID, e.Err)
}

// Unwrap returns the executor error.
func (e *ToolError) Unwrap() error { return e.Err }

// panicError converts a recovered panic value to an error without pulling external dependencies.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }
