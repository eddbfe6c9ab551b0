package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRun_Mock(t *testing.T) {
	out, err := execute(t, "", "run", "--provider", "mock", "hello", "there")
	require.NoError(t, err)
	assert.Equal(t, "[assistant] Mock response to: hello there\n", out)
}

func TestRun_MockStreaming(t *testing.T) {
	out, err := execute(t, "", "run", "--provider", "mock", "--stream", "hi")
	require.NoError(t, err)
	assert.Equal(t, "[assistant] Mock response to: hi\n", out)
}

func TestRun_WithDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: mock
queen: triage
agents:
  - name: triage
    handovers: [billing]
  - name: billing
`), 0o600))

	out, err := execute(t, "", "run", "--config", path, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "[triage] Mock response to: invoice\n", out)
}

func TestRun_UnknownProvider(t *testing.T) {
	_, err := execute(t, "", "run", "--provider", "nope", "hi")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestChat_Mock(t *testing.T) {
	out, err := execute(t, "hi\n\n/reset\nagain\nexit\n", "chat", "--provider", "mock")
	require.NoError(t, err)

	assert.Contains(t, out, "Chatting with assistant.")
	assert.Contains(t, out, "[assistant] Mock response to: hi")
	assert.Contains(t, out, "Conversation reset.")
	assert.Contains(t, out, "[assistant] Mock response to: again")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}
