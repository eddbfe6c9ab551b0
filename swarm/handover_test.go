package swarm

import (
	"testing"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/testutil"
	"github.com/hupe1980/agentswarm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHandover(t *testing.T) {
	billing := agent.New("Billing")
	support := agent.New("Support")
	a := agent.New("Queen", agent.WithTools(agent.HandoverTo(billing), agent.HandoverTo(support)))

	res := &model.Result{
		ToolCalls: []core.ToolCallPart{
			{ID: "1", Name: "lookup"},
			{ID: "2", Name: "transfer_to_support"},
			{ID: "3", Name: "transfer_to_billing"},
		},
		ToolResults: []core.ToolResultPart{{ToolCallID: "1", ToolName: "lookup"}},
	}

	h, ok := findHandover(a, res)
	require.True(t, ok)
	assert.Equal(t, "2", h.Call.ID)
	assert.Equal(t, agent.KindHandover, h.Tool.Kind)
	assert.Contains(t, h.Extras, "3")
	assert.Len(t, h.Extras, 1)

	_, ok = findHandover(a, &model.Result{ToolCalls: []core.ToolCallPart{{ID: "1", Name: "lookup"}}})
	assert.False(t, ok)
}

func TestSpliceHandoverResult_InsertsToolMessage(t *testing.T) {
	msgs := []core.Message{
		testutil.NewMessageBuilder().Sender("Queen").AssistantText("routing").ToolCall("h1", "transfer_to_billing", "").Build(),
	}
	h := pendingHandover{Call: core.ToolCallPart{ID: "h1", Name: "transfer_to_billing"}}
	result := core.ToolResultPart{ToolCallID: "h1", ToolName: "transfer_to_billing", Result: "Handing over to agent Billing"}

	out := spliceHandoverResult(msgs, 0, "Queen", h, result)

	require.Len(t, out, 2)
	assert.Equal(t, core.RoleTool, out[1].Role)
	assert.Equal(t, []core.ToolResultPart{result}, out[1].ToolResults())
	assert.Len(t, msgs, 1, "input must not change")
}

func TestSpliceHandoverResult_PrunesExtrasAndJoinsToolMessage(t *testing.T) {
	msgs := []core.Message{
		core.NewUserMessage("earlier turn"),
		testutil.NewMessageBuilder().Sender("Queen").
			ToolCall("f1", "lookup", "").
			ToolCall("h1", "transfer_to_billing", "").
			ToolCall("h2", "transfer_to_support", "").
			Build(),
		testutil.NewMessageBuilder().ToolResult("f1", "lookup", "42", nil).Build(),
		testutil.NewMessageBuilder().Sender("Queen").AssistantText("later").Build(),
	}
	h := pendingHandover{
		Call:   core.ToolCallPart{ID: "h1", Name: "transfer_to_billing"},
		Extras: map[string]struct{}{"h2": {}},
	}
	result := core.ToolResultPart{ToolCallID: "h1", ToolName: "transfer_to_billing", Result: "ok"}

	out := spliceHandoverResult(msgs, 1, "Queen", h, result)

	require.Len(t, out, 4)

	var ids []string
	for _, c := range out[1].ToolCalls() {
		ids = append(ids, c.ID)
	}

	assert.Equal(t, []string{"f1", "h1"}, ids)
	require.Len(t, out[2].ToolResults(), 2)
	assert.Equal(t, "h1", out[2].ToolResults()[1].ToolCallID)
	assert.Equal(t, "later", out[3].Text())

	assert.Len(t, msgs[1].ToolCalls(), 3, "input must not change")
	assert.Len(t, msgs[2].ToolResults(), 1)
}

func TestSpliceHandoverResult_MissingCallMessage(t *testing.T) {
	h := pendingHandover{Call: core.ToolCallPart{ID: "h1", Name: "transfer_to_billing"}}
	result := core.ToolResultPart{ToolCallID: "h1", ToolName: "transfer_to_billing", Result: "ok"}

	out := spliceHandoverResult(nil, 0, "Queen", h, result)

	require.Len(t, out, 2)
	assert.Equal(t, core.RoleAssistant, out[0].Role)
	assert.Equal(t, "Queen", out[0].Sender)
	assert.Equal(t, "h1", out[0].ToolCalls()[0].ID)
	assert.Equal(t, core.RoleTool, out[1].Role)
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = parseArgs("null")
	require.NoError(t, err)
	assert.NotNil(t, args)

	args, err = parseArgs(`{"reason":"refund"}`)
	require.NoError(t, err)
	assert.Equal(t, "refund", args["reason"])

	_, err = parseArgs("{")
	assert.Error(t, err)
}
