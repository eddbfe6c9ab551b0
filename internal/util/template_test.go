package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		text string
		data map[string]any
		want string
	}{
		{"plain", "You are a helpful agent.", nil, "You are a helpful agent."},
		{"variable", "Hello {{.user}}!", map[string]any{"user": "alice"}, "Hello alice!"},
		{"missing", "Plan: {{.plan}}.", map[string]any{}, "Plan: ."},
		{"default", `Tier: {{default "free" .tier}}`, nil, "Tier: free"},
		{"no escaping", "{{.q}}", map[string]any{"q": "<a & b>"}, "<a & b>"},
		{"upper", "{{upper .x}}", map[string]any{"x": "abc"}, "ABC"},
		{"title", "{{title .x}}", map[string]any{"x": "bILLING"}, "Billing"},
		{"join", `{{join ", " .xs}}`, map[string]any{"xs": []any{"a", 1}}, "a, 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.text, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.unclosed", nil)
	assert.ErrorContains(t, err, "parse instructions")
}
