package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Accessors(t *testing.T) {
	msg := NewAssistantMessage(
		TextPart{Text: "Let me "},
		ToolCallPart{ID: "c1", Name: "lookup", Arguments: `{"q":"x"}`},
		TextPart{Text: "check."},
		ToolCallPart{ID: "c2", Name: "other"},
	)

	assert.Equal(t, "Let me check.", msg.Text())
	calls := msg.ToolCalls()
	assert.Len(t, calls, 2)
	assert.Equal(t, "c1", calls[0].ID)
	assert.Equal(t, "c2", calls[1].ID)
	assert.Empty(t, msg.ToolResults())
}

func TestNewToolMessage(t *testing.T) {
	msg := NewToolMessage(
		ToolResultPart{ToolCallID: "c1", ToolName: "lookup", Result: 42},
		ToolResultPart{ToolCallID: "c2", ToolName: "other", Result: "ok"},
	)

	assert.Equal(t, RoleTool, msg.Role)
	results := msg.ToolResults()
	assert.Len(t, results, 2)
	assert.Equal(t, 42, results[0].Result)
}

func TestCloneMessages_IndependentParts(t *testing.T) {
	orig := []Message{NewAssistantMessage(TextPart{Text: "a"}, ToolCallPart{ID: "1"})}

	cp := CloneMessages(orig)
	cp[0].Parts = cp[0].Parts[:1]
	cp[0].Sender = "x"

	assert.Len(t, orig[0].Parts, 2)
	assert.Empty(t, orig[0].Sender)
	assert.Nil(t, CloneMessages(nil))
}

func TestCountRole(t *testing.T) {
	msgs := []Message{
		NewUserMessage("hi"),
		NewAssistantMessage(TextPart{Text: "a"}),
		NewToolMessage(ToolResultPart{ToolCallID: "1"}),
		NewAssistantMessage(TextPart{Text: "b"}),
	}

	assert.Equal(t, 2, CountRole(msgs, RoleAssistant))
	assert.Equal(t, 1, CountRole(msgs, RoleUser))
	assert.Equal(t, 0, CountRole(msgs, RoleSystem))
}
