package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentswarm/async"
	"github.com/hupe1980/agentswarm/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	var out []Response
	for r := range respCh {
		out = append(out, r)
	}

	var err error
	for e := range errCh {
		err = e
	}

	return out, err
}

func TestMockProvider_Generate(t *testing.T) {
	p := NewMockProvider("mock-1")
	p.AddResponse("ping", "pong")

	out, err := drain(p.Generate(context.Background(), ProviderRequest{
		Messages: []core.Message{core.NewUserMessage("ping")},
	}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "pong", out[0].Message.Text())
	assert.Equal(t, FinishReasonStop, out[0].FinishReason)

	out, err = drain(p.Generate(context.Background(), ProviderRequest{
		Messages: []core.Message{core.NewUserMessage("hi")},
		Stream:   true,
	}))
	require.NoError(t, err)
	require.Len(t, out, len("Mock response to: hi")+1)
	assert.True(t, out[0].Partial)
	assert.Equal(t, "M", out[0].Message.Text())
	assert.Equal(t, "Mock response to: hi", out[len(out)-1].Message.Text())

	assert.Equal(t, Info{Name: "mock-1", Provider: "mock"}, p.Info())
}

func TestMockProvider_NoUserMessage(t *testing.T) {
	_, err := drain(NewMockProvider("m").Generate(context.Background(), ProviderRequest{}))
	assert.Error(t, err)
}

func TestResult_UnhandledToolCalls(t *testing.T) {
	res := &Result{
		ToolCalls: []core.ToolCallPart{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		ToolResults: []core.ToolResultPart{
			{ToolCallID: "2"},
		},
	}

	got := res.UnhandledToolCalls()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, (&Result{}).UnhandledToolCalls())
}

func TestTool_Definition(t *testing.T) {
	tool := Tool{Name: "lookup", Description: "Look up", Parameters: map[string]any{"type": "object"}}

	def := tool.Definition()
	assert.Equal(t, "function", def.Type)
	assert.Equal(t, "lookup", def.Function.Name)
	assert.Equal(t, "Look up", def.Function.Description)
}

func TestStreamResult_Result(t *testing.T) {
	parts := make(chan StreamPart)
	future := async.NewFuture[*Result]()
	sr := NewStreamResult(parts, future)

	boom := errors.New("boom")
	future.Reject(boom)

	_, err := sr.Result(context.Background())
	assert.ErrorIs(t, err, boom)
}
