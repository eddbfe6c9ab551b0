package tool

import (
	"context"
	"testing"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContextTool(t *testing.T) {
	store := core.NewContextStore(core.Context{"plan": "pro"})

	tools, err := Adapt(toolset(NewGetContextTool()), store)
	require.NoError(t, err)

	get := tools["get_context"]
	assert.NotContains(t, get.Parameters["properties"], agent.ContextParam)

	res, err := get.Execute(context.Background(), map[string]any{"key": "plan"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "plan", "found": true, "value": "pro"}, res)

	res, err = get.Execute(context.Background(), map[string]any{"key": "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "missing", "found": false}, res)
}

func TestSetContextTool(t *testing.T) {
	store := core.NewContextStore(nil)

	tools, err := Adapt(toolset(NewSetContextTool()), store)
	require.NoError(t, err)

	res, err := tools["set_context"].Execute(context.Background(), map[string]any{"key": "lang", "value": "go"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "lang", "stored": true}, res)
	assert.Equal(t, core.Context{"lang": "go"}, store.Get())
}

func TestStringArg(t *testing.T) {
	_, err := stringArg(map[string]any{}, "key")
	assert.ErrorContains(t, err, "missing required field 'key'")

	_, err = stringArg(map[string]any{"key": 3}, "key")
	assert.ErrorContains(t, err, "must be non-empty string")

	s, err := stringArg(map[string]any{"key": "x"}, "key")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}
