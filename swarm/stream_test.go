package swarm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/testutil"
	"github.com/hupe1980/agentswarm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_TextMatchesResult(t *testing.T) {
	eng := testutil.NewScriptedEngine(testutil.Reply("Hello world"))
	s := newSwarm(t, agent.New("Queen"), eng)

	sr, err := s.Stream(context.Background(), Input{Content: "hi"})
	require.NoError(t, err)

	var b strings.Builder
	for delta := range sr.TextStream(context.Background()) {
		b.WriteString(delta)
	}

	text, err := sr.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, text, b.String())
	assert.Len(t, s.History(), 2)
}

func TestStream_ScalarsResolveWithoutConsumingViews(t *testing.T) {
	eng := testutil.NewScriptedEngine(testutil.Reply("done"))
	s := newSwarm(t, agent.New("Queen"), eng)

	sr, err := s.Stream(context.Background(), Input{Content: "hi"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reason, err := sr.FinishReason(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FinishReasonStop, reason)

	select {
	case <-sr.Done():
	default:
		t.Fatalf("Done must be closed after the result resolved")
	}

	// views replay after completion
	var types []model.StreamPartType
	for p := range sr.FullStream(ctx) {
		types = append(types, p.Type)
	}

	assert.Equal(t, []model.StreamPartType{model.StreamPartTextDelta, model.StreamPartFinish}, types)
}

func TestStream_HandoverParts(t *testing.T) {
	billing := agent.New("Billing")
	queen := agent.New("Queen", agent.WithTools(agent.HandoverTo(billing)))
	eng := testutil.NewScriptedEngine(
		testutil.CallTools("", testutil.Call("c1", "transfer_to_billing", nil)),
		testutil.Reply("Billing here"),
	)

	s := newSwarm(t, queen, eng)

	sr, err := s.Stream(context.Background(), Input{Content: "help with billing"})
	require.NoError(t, err)

	var parts []Part
	for p := range sr.FullStream(context.Background()) {
		parts = append(parts, p)
	}

	require.Len(t, parts, 4)

	wantTypes := []model.StreamPartType{
		model.StreamPartToolCall,
		PartTypeHandover,
		model.StreamPartTextDelta,
		model.StreamPartFinish,
	}
	wantAgents := []string{"Queen", "Queen", "Billing", "Billing"}

	for i, p := range parts {
		assert.Equal(t, wantTypes[i], p.Type, "part %d", i)
		assert.Equal(t, wantAgents[i], p.Agent.Name, "part %d", i)
	}

	assert.Equal(t, model.FinishReasonStop, parts[3].FinishReason)

	ev := parts[1].Handover
	require.NotNil(t, ev)
	assert.Equal(t, "c1", ev.ToolCallID)
	assert.Equal(t, queen.Info(), ev.From)
	assert.Equal(t, billing.Info(), ev.To)
	assert.Equal(t, "Handing over to agent Billing", ev.Result)

	active, err := sr.ActiveAgent(context.Background())
	require.NoError(t, err)
	assert.Same(t, billing, active)

	msgs, err := sr.Messages(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestStream_IndependentReaders(t *testing.T) {
	eng := testutil.NewScriptedEngine(testutil.Reply("one"))
	s := newSwarm(t, agent.New("Queen"), eng)

	sr, err := s.Stream(context.Background(), Input{Content: "hi"})
	require.NoError(t, err)

	count := func() int {
		n := 0
		for range sr.FullStream(context.Background()) {
			n++
		}

		return n
	}

	first := count()
	assert.Equal(t, 2, first)
	assert.Equal(t, first, count())
}

func TestStream_EngineError(t *testing.T) {
	boom := errors.New("provider down")
	eng := testutil.NewScriptedEngine(testutil.Fail(boom))
	s := newSwarm(t, agent.New("Queen"), eng)

	sr, err := s.Stream(context.Background(), Input{Content: "hi", Context: core.Context{"k": "v"}})
	require.NoError(t, err)

	var last Part
	for p := range sr.FullStream(context.Background()) {
		last = p
	}

	assert.Equal(t, model.StreamPartError, last.Type)

	_, err = sr.Result(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = sr.Context(context.Background())
	require.ErrorIs(t, err, boom)
	require.Len(t, s.History(), 1)
	assert.Equal(t, core.Context{"k": "v"}, s.Context())
}

func TestStream_RejectsConcurrentInvocation(t *testing.T) {
	release := make(chan struct{})

	blocking := func(ctx context.Context, req model.Request) (*model.Result, error) {
		<-release
		return testutil.Reply("late")(ctx, req)
	}

	eng := testutil.NewScriptedEngine(blocking, testutil.Reply("next"))
	s := newSwarm(t, agent.New("Queen"), eng)

	sr, err := s.Stream(context.Background(), Input{Content: "first"})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), Input{Content: "second"})
	assert.ErrorIs(t, err, ErrInvocationInProgress)

	_, err = s.Stream(context.Background(), Input{Content: "second"})
	assert.ErrorIs(t, err, ErrInvocationInProgress)

	assert.ErrorIs(t, s.Reset(), ErrInvocationInProgress)

	close(release)

	_, err = sr.Result(context.Background())
	require.NoError(t, err)

	res, err := s.Generate(context.Background(), Input{Content: "second"})
	require.NoError(t, err)
	assert.Equal(t, "next", res.Text)
	assert.Len(t, s.History(), 4)
}
