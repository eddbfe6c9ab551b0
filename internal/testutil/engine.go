package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentswarm/async"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Turn scripts one engine invocation.
type Turn func(ctx context.Context, req model.Request) (*model.Result, error)

// ScriptedEngine is a model.Engine replaying queued turns and recording
// every request. Stream emits the turn's text as a single delta followed by
// tool call and finish parts.
type ScriptedEngine struct {
	mu       sync.Mutex
	turns    []Turn
	requests []model.Request
}

var _ model.Engine = (*ScriptedEngine)(nil)

// NewScriptedEngine creates an engine with the given turns.
func NewScriptedEngine(turns ...Turn) *ScriptedEngine {
	return &ScriptedEngine{turns: turns}
}

// Requests returns the recorded requests.
func (e *ScriptedEngine) Requests() []model.Request {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]model.Request(nil), e.requests...)
}

// Remaining returns the number of unconsumed turns.
func (e *ScriptedEngine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.turns)
}

func (e *ScriptedEngine) next(req model.Request) (Turn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.requests = append(e.requests, req)
	if len(e.turns) == 0 {
		return nil, fmt.Errorf("scripted engine: no turn left")
	}

	t := e.turns[0]
	e.turns = e.turns[1:]

	return t, nil
}

// Generate implements model.Engine.
func (e *ScriptedEngine) Generate(ctx context.Context, req model.Request) (*model.Result, error) {
	t, err := e.next(req)
	if err != nil {
		return nil, err
	}

	return t(ctx, req)
}

// Stream implements model.Engine.
func (e *ScriptedEngine) Stream(ctx context.Context, req model.Request) (*model.StreamResult, error) {
	t, err := e.next(req)
	if err != nil {
		return nil, err
	}

	parts := make(chan model.StreamPart)
	future := async.NewFuture[*model.Result]()

	go func() {
		defer close(parts)

		res, err := t(ctx, req)
		if err != nil {
			parts <- model.StreamPart{Type: model.StreamPartError, Err: err}
			future.Reject(err)

			return
		}

		if res.Text != "" {
			parts <- model.StreamPart{Type: model.StreamPartTextDelta, TextDelta: res.Text}
		}

		for _, c := range res.ToolCalls {
			parts <- model.StreamPart{Type: model.StreamPartToolCall, ToolCall: &c}
		}

		parts <- model.StreamPart{Type: model.StreamPartFinish, FinishReason: res.FinishReason}

		future.Resolve(res)
	}()

	return model.NewStreamResult(parts, future), nil
}

// Reply is a turn answering with text and finish reason stop.
func Reply(text string) Turn {
	return func(ctx context.Context, req model.Request) (*model.Result, error) {
		msg := core.NewAssistantMessage(core.TextPart{Text: text})
		step := model.StepResult{FinishReason: model.FinishReasonStop, Text: text, ResponseMessages: []core.Message{msg}}

		return finish(ctx, req, []model.StepResult{step})
	}
}

// Fail is a turn returning err.
func Fail(err error) Turn {
	return func(context.Context, model.Request) (*model.Result, error) { return nil, err }
}

// Respond is a turn returning res unchanged.
func Respond(res *model.Result) Turn {
	return func(context.Context, model.Request) (*model.Result, error) { return res, nil }
}

// CallTools is a single-step turn that requests calls, executing those whose
// tool has an executor the way a real engine does. Calls to tools without an
// executor stay unhandled.
func CallTools(text string, calls ...core.ToolCallPart) Turn {
	return func(ctx context.Context, req model.Request) (*model.Result, error) {
		step, err := callStep(ctx, req, text, calls)
		if err != nil {
			return nil, err
		}

		return finish(ctx, req, []model.StepResult{step})
	}
}

// Steps is a turn made of several single steps, each one either a Reply
// text (string) or a tool step ([]core.ToolCallPart). It models an engine
// running multiple steps within one invocation.
func Steps(steps ...any) Turn {
	return func(ctx context.Context, req model.Request) (*model.Result, error) {
		out := make([]model.StepResult, 0, len(steps))

		for _, s := range steps {
			switch v := s.(type) {
			case string:
				msg := core.NewAssistantMessage(core.TextPart{Text: v})
				out = append(out, model.StepResult{FinishReason: model.FinishReasonStop, Text: v, ResponseMessages: []core.Message{msg}})
			case []core.ToolCallPart:
				step, err := callStep(ctx, req, "", v)
				if err != nil {
					return nil, err
				}

				out = append(out, step)
			default:
				return nil, fmt.Errorf("scripted engine: unsupported step %T", s)
			}
		}

		return finish(ctx, req, out)
	}
}

func callStep(ctx context.Context, req model.Request, text string, calls []core.ToolCallPart) (model.StepResult, error) {
	parts := make([]core.Part, 0, len(calls)+1)
	if text != "" {
		parts = append(parts, core.TextPart{Text: text})
	}

	for _, c := range calls {
		parts = append(parts, c)
	}

	step := model.StepResult{
		FinishReason:     model.FinishReasonToolCalls,
		Text:             text,
		ToolCalls:        calls,
		ResponseMessages: []core.Message{core.NewAssistantMessage(parts...)},
	}

	for _, c := range calls {
		t, ok := req.Tools[c.Name]
		if !ok {
			return model.StepResult{}, fmt.Errorf("scripted engine: unknown tool %s", c.Name)
		}

		if t.Execute == nil {
			continue
		}

		args := map[string]any{}
		if c.Arguments != "" {
			var err error
			if args, err = decode(c.Arguments); err != nil {
				return model.StepResult{}, err
			}
		}

		res, err := t.Execute(ctx, args)
		if err != nil {
			return model.StepResult{}, err
		}

		step.ToolResults = append(step.ToolResults, core.ToolResultPart{ToolCallID: c.ID, ToolName: c.Name, Result: res})
	}

	if len(step.ToolResults) > 0 {
		step.ResponseMessages = append(step.ResponseMessages, core.NewToolMessage(step.ToolResults...))
	}

	return step, nil
}

func finish(ctx context.Context, req model.Request, steps []model.StepResult) (*model.Result, error) {
	res := &model.Result{}

	for _, s := range steps {
		if req.OnStepFinish != nil {
			if err := req.OnStepFinish(ctx, s); err != nil {
				return nil, err
			}
		}

		res.Text += s.Text
		res.ResponseMessages = append(res.ResponseMessages, s.ResponseMessages...)
	}

	last := steps[len(steps)-1]
	res.FinishReason = last.FinishReason
	res.ToolCalls = last.ToolCalls
	res.ToolResults = last.ToolResults
	res.Steps = steps

	return res, nil
}
