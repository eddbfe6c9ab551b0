package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentswarm/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Sender("queen").AssistantText("hello").ToolCall("c1", "lookup", `{"q":"x"}`).Build()
//
// Chain only the parts you need; role defaults to assistant.
type MessageBuilder struct {
	role   core.Role
	sender string
	parts  []core.Part
}

// NewMessageBuilder creates a builder with the assistant role.
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{role: core.RoleAssistant} }

// Sender sets the producing agent name (chainable).
func (b *MessageBuilder) Sender(s string) *MessageBuilder { b.sender = s; return b }

// UserText appends a text part and sets role to user (chainable).
func (b *MessageBuilder) UserText(t string) *MessageBuilder {
	b.role = core.RoleUser
	b.parts = append(b.parts, core.TextPart{Text: t})

	return b
}

// AssistantText appends a text part and sets role to assistant (chainable).
func (b *MessageBuilder) AssistantText(t string) *MessageBuilder {
	b.role = core.RoleAssistant
	b.parts = append(b.parts, core.TextPart{Text: t})

	return b
}

// ToolCall adds a tool call part with a JSON argument string (chainable).
func (b *MessageBuilder) ToolCall(id, name, args string) *MessageBuilder {
	b.parts = append(b.parts, core.ToolCallPart{ID: id, Name: name, Arguments: args})
	return b
}

// ToolResult adds a tool result part and sets role to tool (chainable).
func (b *MessageBuilder) ToolResult(id, name string, result any, err error) *MessageBuilder {
	b.role = core.RoleTool

	tr := core.ToolResultPart{ToolCallID: id, ToolName: name, Result: result}
	if err != nil {
		tr.Result = err.Error()
		tr.IsError = true
	}

	b.parts = append(b.parts, tr)

	return b
}

// Build constructs the core.Message value.
func (b *MessageBuilder) Build() core.Message {
	return core.Message{Role: b.role, Parts: append([]core.Part(nil), b.parts...), Sender: b.sender}
}

// Call builds a ToolCallPart whose arguments are args marshalled to JSON.
func Call(id, name string, args map[string]any) core.ToolCallPart {
	raw := ""

	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			panic(fmt.Sprintf("testutil: marshal args: %v", err))
		}

		raw = string(data)
	}

	return core.ToolCallPart{ID: id, Name: name, Arguments: raw}
}
