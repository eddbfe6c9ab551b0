package core

import "strings"

// Role identifies the author category of a Message.
type Role string

const (
	// RoleUser marks caller-provided input.
	RoleUser Role = "user"
	// RoleAssistant marks model output.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool execution results.
	RoleTool Role = "tool"
	// RoleSystem marks system instructions.
	RoleSystem Role = "system"
)

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) isPart() {}

// ToolCallPart is a tool invocation requested by the model.
type ToolCallPart struct {
	ID        string `json:"id"`                  // Call id, correlates the result
	Name      string `json:"name"`                // Tool name
	Arguments string `json:"arguments,omitempty"` // Serialized JSON arguments
}

func (ToolCallPart) isPart() {}

// ToolResultPart is the outcome of a tool call.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Result     any    `json:"result,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
}

func (ToolResultPart) isPart() {}

// Message is one entry of the conversation history. Assistant messages carry
// the name of the agent that produced them in Sender.
type Message struct {
	Role   Role   `json:"role"`
	Parts  []Part `json:"parts"`
	Sender string `json:"sender,omitempty"`
}

// NewUserMessage creates a user message with a single text part.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// NewSystemMessage creates a system message with a single text part.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantMessage creates an assistant message from arbitrary parts.
func NewAssistantMessage(parts ...Part) Message {
	return Message{Role: RoleAssistant, Parts: parts}
}

// NewToolMessage creates a tool message carrying one or more results.
func NewToolMessage(results ...ToolResultPart) Message {
	parts := make([]Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, r)
	}

	return Message{Role: RoleTool, Parts: parts}
}

// Text concatenates all text parts.
func (m Message) Text() string {
	var b strings.Builder

	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}

	return b.String()
}

// ToolCalls returns the tool call parts in emission order.
func (m Message) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart

	for _, p := range m.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc)
		}
	}

	return calls
}

// ToolResults returns the tool result parts in order.
func (m Message) ToolResults() []ToolResultPart {
	var results []ToolResultPart

	for _, p := range m.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr)
		}
	}

	return results
}

// Clone returns a copy with its own Parts slice. Part values are immutable.
func (m Message) Clone() Message {
	m.Parts = append([]Part(nil), m.Parts...)
	return m
}

// CloneMessages copies a message slice, cloning each message.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}

	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}

	return out
}

// CountRole returns how many messages in msgs have the given role.
func CountRole(msgs []Message, role Role) int {
	n := 0

	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}

	return n
}
