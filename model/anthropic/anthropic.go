// Package anthropic implements model.Provider on top of the Anthropic
// Messages API, including streaming and tool use.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Options configures the Anthropic provider (model id, temperature, max
// tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Provider wraps the Anthropic Messages API behind model.Provider.
type Provider struct {
	client *anthropic.Client
	opts   Options
}

var _ model.Provider = (*Provider)(nil)

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// NewProvider creates a provider using the official client. Without an
// APIKey the client reads ANTHROPIC_API_KEY.
func NewProvider(optFns ...func(o *Options)) *Provider {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Provider{client: &client, opts: opts}
}

// NewProviderFromClient creates a provider from an existing client.
func NewProviderFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Provider {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Provider{client: client, opts: opts}
}

// Generate implements model.Provider.
func (p *Provider) Generate(ctx context.Context, req model.ProviderRequest) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := p.buildParams(req)

		if req.Stream {
			p.handleStreaming(ctx, params, out, errCh)
			return
		}

		resp, err := p.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		out <- toResponse(resp)
	}()

	return out, errCh
}

func (p *Provider) buildParams(req model.ProviderRequest) anthropic.MessageNewParams {
	name := p.opts.Model
	if req.Model != "" {
		name = anthropic.Model(req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:       name,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   p.opts.MaxTokens,
		Temperature: anthropic.Float(p.opts.Temperature),
	}

	if system := systemBlocks(req.Instructions, req.Messages); len(system) > 0 {
		params.System = system
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)

		if !req.ToolChoice.IsZero() {
			params.ToolChoice = buildToolChoice(req.ToolChoice)
		}
	}

	return params
}

// handleStreaming forwards text deltas and accumulates the full message,
// which is emitted as the final response.
func (p *Provider) handleStreaming(
	ctx context.Context,
	params anthropic.MessageNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	message := anthropic.Message{}

	for stream.Next() {
		event := stream.Current()

		if err := message.Accumulate(event); err != nil {
			errCh <- fmt.Errorf("anthropic accumulate: %w", err)
			return
		}

		ev, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}

		if d, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && d.Text != "" {
			out <- model.Response{
				ID:      message.ID,
				Partial: true,
				Message: core.NewAssistantMessage(core.TextPart{Text: d.Text}),
			}
		}
	}

	if err := stream.Err(); err != nil {
		errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		return
	}

	out <- toResponse(&message)
}

func toResponse(msg *anthropic.Message) model.Response {
	var parts []core.Part

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			if text := block.AsText().Text; text != "" {
				parts = append(parts, core.TextPart{Text: text})
			}
		case "tool_use":
			tu := block.AsToolUse()

			args := ""
			if data, err := json.Marshal(tu.Input); err == nil && string(data) != "null" {
				args = string(data)
			}

			parts = append(parts, core.ToolCallPart{ID: tu.ID, Name: tu.Name, Arguments: args})
		}
	}

	resp := model.Response{
		ID:           msg.ID,
		Message:      core.NewAssistantMessage(parts...),
		FinishReason: finishReason(msg.StopReason),
	}

	if total := msg.Usage.InputTokens + msg.Usage.OutputTokens; total > 0 {
		resp.Usage = &model.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(total),
		}
	}

	return resp
}

// finishReason maps Anthropic stop reasons onto model.FinishReason.
func finishReason(r anthropic.StopReason) model.FinishReason {
	switch r {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return model.FinishReasonStop
	case anthropic.StopReasonMaxTokens:
		return model.FinishReasonLength
	case anthropic.StopReasonToolUse:
		return model.FinishReasonToolCalls
	case anthropic.StopReasonRefusal:
		return model.FinishReasonContentFilter
	case "":
		return model.FinishReasonUnknown
	default:
		return model.FinishReasonOther
	}
}

// buildMessages converts the history. System messages go to the system
// prompt; tool results travel in user turns as tool_result blocks.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	for _, m := range msgs {
		switch m.Role {
		case core.RoleUser:
			if text := m.Text(); text != "" {
				out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
			}
		case core.RoleAssistant:
			if blocks := assistantBlocks(m); len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		case core.RoleTool:
			results := m.ToolResults()
			if len(results) == 0 {
				continue
			}

			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(results))
			for _, r := range results {
				blocks = append(blocks, anthropic.NewToolResultBlock(r.ToolCallID, resultText(r.Result), r.IsError))
			}

			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}

	return out
}

func assistantBlocks(m core.Message) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion

	for _, p := range m.Parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case core.ToolCallPart:
			input := map[string]any{}

			if part.Arguments != "" {
				if err := json.Unmarshal([]byte(part.Arguments), &input); err != nil || input == nil {
					input = map[string]any{}
				}
			}

			blocks = append(blocks, anthropic.NewToolUseBlock(part.ID, input, part.Name))
		}
	}

	return blocks
}

func resultText(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	default:
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Sprintf("%v", r)
		}

		return string(data)
	}
}

func systemBlocks(instructions string, msgs []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam

	if instructions != "" {
		blocks = append(blocks, anthropic.TextBlockParam{Text: instructions})
	}

	for _, m := range msgs {
		if m.Role != core.RoleSystem {
			continue
		}

		if text := m.Text(); text != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: text})
		}
	}

	return blocks
}

func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))

	for i, d := range defs {
		schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}

		if props, ok := d.Function.Parameters["properties"]; ok {
			schema.Properties = props
		}

		switch req := d.Function.Parameters["required"].(type) {
		case []string:
			schema.Required = req
		case []any:
			for _, r := range req {
				if s, ok := r.(string); ok {
					schema.Required = append(schema.Required, s)
				}
			}
		}

		tools[i] = anthropic.ToolUnionParamOfTool(schema, d.Function.Name)
		if d.Function.Description != "" {
			tools[i].OfTool.Description = anthropic.String(d.Function.Description)
		}
	}

	return tools
}

func buildToolChoice(tc model.ToolChoice) anthropic.ToolChoiceUnionParam {
	switch tc.Type {
	case model.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	case model.ToolChoiceRequired:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	case model.ToolChoiceTool:
		return anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: tc.ToolName}}
	default:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
}

// Info implements model.Provider.
func (p *Provider) Info() model.Info {
	return model.Info{
		Name:          string(p.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
