package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// ScriptedProvider replays queued responses, one script entry per Generate
// call, and records every request. Streaming requests additionally receive
// the text of the final message split into words as partial chunks.
type ScriptedProvider struct {
	mu       sync.Mutex
	script   []func(model.ProviderRequest) (model.Response, error)
	requests []model.ProviderRequest
}

// NewScriptedProvider creates a provider with the given script.
func NewScriptedProvider(script ...func(model.ProviderRequest) (model.Response, error)) *ScriptedProvider {
	return &ScriptedProvider{script: script}
}

// Then appends a script entry (chainable).
func (p *ScriptedProvider) Then(fn func(model.ProviderRequest) (model.Response, error)) *ScriptedProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.script = append(p.script, fn)

	return p
}

// Requests returns the recorded requests.
func (p *ScriptedProvider) Requests() []model.ProviderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]model.ProviderRequest(nil), p.requests...)
}

// Generate implements model.Provider.
func (p *ScriptedProvider) Generate(ctx context.Context, req model.ProviderRequest) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response, 64)
	errCh := make(chan error, 1)

	p.mu.Lock()
	p.requests = append(p.requests, req)

	var fn func(model.ProviderRequest) (model.Response, error)
	if len(p.script) > 0 {
		fn = p.script[0]
		p.script = p.script[1:]
	}
	p.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if fn == nil {
			errCh <- fmt.Errorf("scripted provider: no response left")
			return
		}

		resp, err := fn(req)
		if err != nil {
			errCh <- err
			return
		}

		if req.Stream {
			for _, chunk := range splitWords(resp.Message.Text()) {
				respCh <- model.Response{Partial: true, Message: core.NewAssistantMessage(core.TextPart{Text: chunk})}
			}
		}

		respCh <- resp
	}()

	return respCh, errCh
}

// Info implements model.Provider.
func (p *ScriptedProvider) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

// TextResponse returns a script entry answering with text and finish reason stop.
func TextResponse(text string) func(model.ProviderRequest) (model.Response, error) {
	return func(model.ProviderRequest) (model.Response, error) {
		return model.Response{
			Message:      core.NewAssistantMessage(core.TextPart{Text: text}),
			FinishReason: model.FinishReasonStop,
		}, nil
	}
}

// ToolCallResponse returns a script entry requesting the given calls.
func ToolCallResponse(text string, calls ...core.ToolCallPart) func(model.ProviderRequest) (model.Response, error) {
	return func(model.ProviderRequest) (model.Response, error) {
		parts := make([]core.Part, 0, len(calls)+1)
		if text != "" {
			parts = append(parts, core.TextPart{Text: text})
		}

		for _, c := range calls {
			parts = append(parts, c)
		}

		return model.Response{
			Message:      core.NewAssistantMessage(parts...),
			FinishReason: model.FinishReasonToolCalls,
		}, nil
	}
}

func splitWords(s string) []string {
	var (
		out   []string
		start int
	)

	for i, r := range s {
		if r == ' ' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}

	if start < len(s) {
		out = append(out, s[start:])
	}

	return out
}
