package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return NewFunctionTool(name, "echo", nil, func(_ context.Context, args map[string]any) (FunctionResult, error) {
		return FunctionResult{Result: args}, nil
	})
}

func TestNew_Defaults(t *testing.T) {
	a := New("Queen")

	assert.Equal(t, "Queen", a.Name)
	assert.NotEmpty(t, a.ID)
	assert.Empty(t, a.Tools)
	assert.Equal(t, core.AgentInfo{ID: a.ID, Name: "Queen"}, a.Info())

	inst, err := a.ResolveInstructions(nil)
	require.NoError(t, err)
	assert.Equal(t, "You are Queen, a helpful AI assistant.", inst)
}

func TestNew_Options(t *testing.T) {
	a := New("Billing",
		WithInstructions("Handle billing for {{.user}}."),
		WithTools(echoTool("lookup")),
		func(o *Options) {
			o.Model = "gpt-4o-mini"
			o.MaxTurns = 2
			o.Description = "billing questions"
		},
	)

	assert.Equal(t, "gpt-4o-mini", a.Model)
	assert.Equal(t, 2, a.MaxTurns)
	assert.Contains(t, a.Tools, "lookup")

	inst, err := a.ResolveInstructions(core.Context{"user": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Handle billing for alice.", inst)
	assert.NoError(t, a.Validate())
}

func TestEffectiveToolChoice(t *testing.T) {
	assert.Equal(t, model.NoneToolChoice(), New("a").EffectiveToolChoice())
	assert.Equal(t, model.AutoToolChoice(), New("b", WithTools(echoTool("x"))).EffectiveToolChoice())

	c := New("c", WithTools(echoTool("x")), func(o *Options) { o.ToolChoice = model.RequiredToolChoice() })
	assert.Equal(t, model.RequiredToolChoice(), c.EffectiveToolChoice())
}

func TestHandoverTo(t *testing.T) {
	billing := New("Billing Agent", func(o *Options) { o.Description = "Handles invoices." })
	queen := New("Queen", WithTools(HandoverTo(billing)))

	tool, ok := queen.Tool("transfer_to_billing_agent")
	require.True(t, ok)
	assert.Equal(t, KindHandover, tool.Kind)
	assert.Contains(t, tool.Description, "Handles invoices.")
	_, ok = queen.HandoverTool(tool.Name)
	assert.True(t, ok)

	res, err := tool.Handover(context.Background(), map[string]any{"user": "alice"})
	require.NoError(t, err)
	assert.Same(t, billing, res.Agent)
	assert.Empty(t, res.Context)
}

func TestAgent_CircularHandovers(t *testing.T) {
	a := New("A")
	b := New("B", WithTools(HandoverTo(a)))
	a.AddTool(HandoverTo(b))

	_, ok := a.HandoverTool("transfer_to_b")
	assert.True(t, ok)
	_, ok = b.HandoverTool("transfer_to_a")
	assert.True(t, ok)
	assert.NoError(t, a.Validate())
	assert.NoError(t, b.Validate())
}

func TestAgent_Validate(t *testing.T) {
	bad := New("bad", WithTools(Tool{Kind: KindHandover, Name: "h"}))
	assert.ErrorIs(t, bad.Validate(), ErrMalformedTool)

	mixed := New("mixed")
	mixed.Tools["alias"] = echoTool("real")
	assert.ErrorIs(t, mixed.Validate(), ErrMalformedTool)

	choice := New("choice", func(o *Options) { o.ToolChoice = model.SpecificToolChoice("missing") })
	assert.Error(t, choice.Validate())

	assert.Error(t, (&Agent{}).Validate())
}
