package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
)

// toolExecutor runs the executable calls of one step. Results keep the order
// of the incoming calls.
type toolExecutor struct {
	maxParallel int // <1 => no explicit limit
	validate    bool
	callbacks   *CallbackManager
	logger      logging.Logger
}

func (x *toolExecutor) Execute(ctx context.Context, step int, tools map[string]model.Tool, calls []core.ToolCallPart) ([]core.ToolResultPart, error) {
	n := len(calls)
	if n == 0 {
		return nil, nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		res, err := x.executeSingle(ctx, step, tools[calls[0].Name], calls[0])
		if err != nil {
			return nil, err
		}

		return []core.ToolResultPart{res}, nil
	}

	results := make([]core.ToolResultPart, n)
	batchStart := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if x.maxParallel > 0 {
		g.SetLimit(x.maxParallel)
	}

	for i, call := range calls {
		g.Go(func() error {
			res, err := x.executeSingle(gctx, step, tools[call.Name], call)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	x.logger.Debug(
		"engine.tools.batch.complete",
		"count", n,
		"parallelism", x.maxParallel,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results, nil
}

func (x *toolExecutor) executeSingle(ctx context.Context, step int, t model.Tool, call core.ToolCallPart) (core.ToolResultPart, error) {
	if err := ctx.Err(); err != nil {
		return core.ToolResultPart{}, err
	}

	args, err := decodeArguments(call.Arguments)
	if err != nil {
		return core.ToolResultPart{}, &ToolError{Tool: call.Name, CallID: call.ID, Err: err}
	}

	if x.validate {
		if err := util.ValidateParameters(args, t.Parameters); err != nil {
			return core.ToolResultPart{}, &ToolError{Tool: call.Name, CallID: call.ID, Err: fmt.Errorf("%w: %w", ErrInvalidArguments, err)}
		}
	}

	if err := x.callbacks.ExecuteCallbacks(ctx, CallbackBeforeTool, &CallbackContext{Step: step, ToolCall: &call}); err != nil {
		return core.ToolResultPart{}, err
	}

	start := time.Now()

	var result any

	func() { // panic safety
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
				x.logger.Error("engine.tool.panic", "tool", call.Name, "recover", r)
			}
		}()

		result, err = t.Execute(ctx, args)
	}()

	x.logger.Info(
		"engine.tool.executed",
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		return core.ToolResultPart{}, &ToolError{Tool: call.Name, CallID: call.ID, Err: err}
	}

	res := core.ToolResultPart{ToolCallID: call.ID, ToolName: call.Name, Result: result}

	if err := x.callbacks.ExecuteCallbacks(ctx, CallbackAfterTool, &CallbackContext{Step: step, ToolCall: &call, ToolResult: &res}); err != nil {
		return core.ToolResultPart{}, err
	}

	return res, nil
}

// decodeArguments parses serialized call arguments. Empty input yields an
// empty map.
func decodeArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}

	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	if args == nil { // "null"
		args = map[string]any{}
	}

	return args, nil
}
