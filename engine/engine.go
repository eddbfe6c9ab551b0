package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/agentswarm/async"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
)

// Config defines tuning parameters for the Engine.
type Config struct {
	// MaxParallelTools bounds concurrent tool executions within one step.
	// 0 means no limit.
	MaxParallelTools int

	// DefaultMaxSteps applies when a request does not set MaxSteps.
	DefaultMaxSteps int

	// ValidateArguments checks decoded arguments against the tool schema
	// before execution.
	ValidateArguments bool

	// StreamBufferSize sets the buffer of the part channel returned by Stream.
	StreamBufferSize int
}

// DefaultConfig provides default configuration values.
var DefaultConfig = Config{
	MaxParallelTools:  4,
	DefaultMaxSteps:   10,
	ValidateArguments: true,
	StreamBufferSize:  64,
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// Callbacks are lifecycle hooks; nil means none.
	Callbacks *CallbackManager

	// Logger defaults to a NoOp logger.
	Logger logging.Logger
}

// Engine is the default model.Engine over a single Provider.
type Engine struct {
	provider  model.Provider
	config    Config
	callbacks *CallbackManager
	executor  *toolExecutor
	logger    logging.Logger
}

// compile-time check
var _ model.Engine = (*Engine)(nil)

// New creates an Engine driving provider.
//
// Example:
//
//	eng := engine.New(openai.NewModel(), func(o *engine.Options) {
//	    o.Config.MaxParallelTools = 8
//	    o.Logger = logger
//	})
func New(provider model.Provider, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	return &Engine{
		provider:  provider,
		config:    opts.Config,
		callbacks: opts.Callbacks,
		logger:    logger,
		executor: &toolExecutor{
			maxParallel: opts.Config.MaxParallelTools,
			validate:    opts.Config.ValidateArguments,
			callbacks:   opts.Callbacks,
			logger:      logger,
		},
	}
}

// Generate implements model.Engine.
func (e *Engine) Generate(ctx context.Context, req model.Request) (*model.Result, error) {
	return e.run(ctx, req, nil)
}

// Stream implements model.Engine.
func (e *Engine) Stream(ctx context.Context, req model.Request) (*model.StreamResult, error) {
	parts := make(chan model.StreamPart, e.config.StreamBufferSize)
	result := async.NewFuture[*model.Result]()

	emit := func(p model.StreamPart) {
		select {
		case parts <- p:
		case <-ctx.Done():
		}
	}

	go func() {
		res, err := e.run(ctx, req, emit)
		if err != nil {
			emit(model.StreamPart{Type: model.StreamPartError, Err: err})
			close(parts)
			result.Reject(err)

			return
		}

		emit(model.StreamPart{Type: model.StreamPartFinish, FinishReason: res.FinishReason})
		close(parts)
		result.Resolve(res)
	}()

	return model.NewStreamResult(parts, result), nil
}

// run is the step loop shared by Generate and Stream. emit is nil for
// blocking generations.
func (e *Engine) run(ctx context.Context, req model.Request, emit func(model.StreamPart)) (*model.Result, error) {
	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = e.config.DefaultMaxSteps
	}

	if maxSteps <= 0 {
		maxSteps = 1
	}

	defs := definitions(req.Tools)
	messages := core.CloneMessages(req.Messages)
	result := &model.Result{FinishReason: model.FinishReasonUnknown}

	var text strings.Builder

	for step := 0; step < maxSteps; step++ {
		preq := model.ProviderRequest{
			Model:        req.Model,
			Instructions: req.System,
			Messages:     messages,
			Tools:        defs,
			ToolChoice:   req.ToolChoice,
			Stream:       emit != nil,
		}

		stepRes, err := e.step(ctx, step, preq, req.Tools, emit)
		if err != nil {
			_ = e.callbacks.ExecuteCallbacks(ctx, CallbackOnError, &CallbackContext{Step: step, Request: &preq, Err: err})
			e.logger.Error("engine.generate.error", "step", step, "error", err.Error())

			return nil, err
		}

		text.WriteString(stepRes.Text)

		result.FinishReason = stepRes.FinishReason
		result.ToolCalls = stepRes.ToolCalls
		result.ToolResults = stepRes.ToolResults
		result.Steps = append(result.Steps, stepRes)
		result.ResponseMessages = append(result.ResponseMessages, stepRes.ResponseMessages...)
		messages = append(messages, stepRes.ResponseMessages...)

		if req.OnStepFinish != nil {
			if err := req.OnStepFinish(ctx, stepRes); err != nil {
				return nil, fmt.Errorf("step finish: %w", err)
			}
		}

		if emit != nil {
			emit(model.StreamPart{Type: model.StreamPartStepFinish, FinishReason: stepRes.FinishReason})
		}

		if len(stepRes.ToolCalls) == 0 || len(stepRes.ToolResults) < len(stepRes.ToolCalls) {
			break
		}
	}

	result.Text = text.String()

	e.logger.Debug(
		"engine.generate.complete",
		"steps", len(result.Steps),
		"finish_reason", string(result.FinishReason),
	)

	return result, nil
}

func (e *Engine) step(
	ctx context.Context,
	step int,
	preq model.ProviderRequest,
	tools map[string]model.Tool,
	emit func(model.StreamPart),
) (model.StepResult, error) {
	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeModel, &CallbackContext{Step: step, Request: &preq}); err != nil {
		return model.StepResult{}, err
	}

	resp, err := e.call(ctx, preq, emit)
	if err != nil {
		return model.StepResult{}, err
	}

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterModel, &CallbackContext{Step: step, Request: &preq, Response: &resp}); err != nil {
		return model.StepResult{}, err
	}

	assistant := withCallIDs(resp.Message)
	assistant.Role = core.RoleAssistant
	calls := assistant.ToolCalls()

	stepRes := model.StepResult{
		FinishReason:     resp.FinishReason,
		Text:             assistant.Text(),
		ToolCalls:        calls,
		ResponseMessages: []core.Message{assistant},
		Usage:            resp.Usage,
	}

	if len(calls) == 0 {
		return stepRes, nil
	}

	executable := make([]core.ToolCallPart, 0, len(calls))

	for _, call := range calls {
		t, ok := tools[call.Name]
		if !ok {
			return model.StepResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
		}

		if emit != nil {
			emit(model.StreamPart{Type: model.StreamPartToolCall, ToolCall: &call})
		}

		if t.Execute == nil {
			e.logger.Debug("engine.tool.unhandled", "tool", call.Name, "call_id", call.ID)
			continue
		}

		executable = append(executable, call)
	}

	results, err := e.executor.Execute(ctx, step, tools, executable)
	if err != nil {
		return model.StepResult{}, err
	}

	if len(results) > 0 {
		stepRes.ToolResults = results
		stepRes.ResponseMessages = append(stepRes.ResponseMessages, core.NewToolMessage(results...))

		if emit != nil {
			for _, r := range results {
				emit(model.StreamPart{Type: model.StreamPartToolResult, ToolResult: &r})
			}
		}
	}

	if len(executable) < len(calls) {
		stepRes.FinishReason = model.FinishReasonToolCalls
	}

	return stepRes, nil
}

// withCallIDs returns a copy of m where tool calls without an ID got a
// fresh one. Results are correlated by ID.
func withCallIDs(m core.Message) core.Message {
	m = m.Clone()

	for i, p := range m.Parts {
		if tc, ok := p.(core.ToolCallPart); ok && tc.ID == "" {
			tc.ID = core.NewID()
			m.Parts[i] = tc
		}
	}

	return m
}

// call performs one provider call, forwarding text deltas to emit, and
// returns the final response.
func (e *Engine) call(ctx context.Context, preq model.ProviderRequest, emit func(model.StreamPart)) (model.Response, error) {
	respCh, errCh := e.provider.Generate(ctx, preq)

	var (
		final    *model.Response
		streamed bool
	)

	for respCh != nil || errCh != nil {
		select {
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}

			if r.Partial {
				if delta := r.Message.Text(); delta != "" && emit != nil {
					streamed = true
					emit(model.StreamPart{Type: model.StreamPartTextDelta, TextDelta: delta})
				}

				continue
			}

			final = &r
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}

			if err != nil {
				return model.Response{}, err
			}
		case <-ctx.Done():
			return model.Response{}, ctx.Err()
		}
	}

	if final == nil {
		return model.Response{}, ErrNoResponse
	}

	// providers that do not stream deltas still surface their text
	if emit != nil && !streamed {
		if text := final.Message.Text(); text != "" {
			emit(model.StreamPart{Type: model.StreamPartTextDelta, TextDelta: text})
		}
	}

	if final.FinishReason == "" {
		final.FinishReason = model.FinishReasonUnknown
	}

	return *final, nil
}

// definitions returns tool declarations sorted by name for stable requests.
func definitions(tools map[string]model.Tool) []model.ToolDefinition {
	if len(tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition())
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Function.Name < defs[j].Function.Name })

	return defs
}

// IsToolError reports whether err wraps a *ToolError.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
