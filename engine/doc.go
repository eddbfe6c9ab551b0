// Package engine implements the default model.Engine on top of a
// model.Provider.
//
// One generation is a loop of steps. Each step is a single provider call
// producing one assistant message; the tool calls in that message are then
// executed and their results appended as a tool message before the next
// step. The loop ends when:
//
//   - the model answers without tool calls,
//   - a call names a tool without an executor (the call is returned
//     unhandled, see model.Tool), or
//   - the step ceiling (Request.MaxSteps) is reached.
//
// # Tool execution
//
// Calls of one step run in parallel, bounded by Config.MaxParallelTools,
// using errgroup. Results keep the call order. Arguments are decoded from
// JSON and, when Config.ValidateArguments is set, checked against the tool
// schema. Executor failures (including recovered panics) abort the
// generation wrapped in *ToolError.
//
// # Callbacks
//
// A CallbackManager hooks into the lifecycle (before/after model call,
// before/after tool, on error). Callbacks run synchronously; an error
// returned by a callback aborts the generation.
//
// # Streaming
//
// Stream runs the same loop in a goroutine and emits model.StreamPart values
// (text deltas, tool calls, tool results, step and finish markers). The part
// channel must be drained by the caller.
package engine
