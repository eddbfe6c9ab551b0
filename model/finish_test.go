package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinishReason_Terminal(t *testing.T) {
	terminal := []FinishReason{FinishReasonStop, FinishReasonLength, FinishReasonContentFilter, FinishReasonError}
	for _, r := range terminal {
		assert.True(t, r.Terminal(), r)
	}

	open := []FinishReason{FinishReasonToolCalls, FinishReasonOther, FinishReasonUnknown, ""}
	for _, r := range open {
		assert.False(t, r.Terminal(), r)
	}
}

func TestParseToolChoice(t *testing.T) {
	assert.True(t, ParseToolChoice("").IsZero())
	assert.Equal(t, AutoToolChoice(), ParseToolChoice("auto"))
	assert.Equal(t, NoneToolChoice(), ParseToolChoice("none"))
	assert.Equal(t, RequiredToolChoice(), ParseToolChoice("required"))
	assert.Equal(t, ToolChoice{Type: ToolChoiceTool, ToolName: "lookup"}, ParseToolChoice("lookup"))
}
