package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	assert.ElementsMatch(t, []string{"a"}, requiredFields(schema))
}

type address struct {
	City string `json:"city"`
}

type nestedSchema struct {
	Tags    []string `json:"tags"`
	Home    address  `json:"home"`
	Skipped string   `json:"-"`
	Note    string
}

func TestCreateSchema_Nested(t *testing.T) {
	schema := CreateSchema(&nestedSchema{})
	props := schema["properties"].(map[string]any)

	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "string"}}, props["tags"])

	home := props["home"].(map[string]any)
	assert.Equal(t, "object", home["type"])
	assert.Equal(t, []string{"city"}, home["required"])

	assert.NotContains(t, props, "Skipped")
	assert.Contains(t, props, "Note")
	assert.Equal(t, []string{"tags", "home", "Note"}, schema["required"])
}

func TestCreateSchema_NotAStruct(t *testing.T) {
	assert.Equal(t, map[string]any{"type": "object", "properties": map[string]any{}}, CreateSchema(42))
	assert.Equal(t, map[string]any{"type": "object", "properties": map[string]any{}}, CreateSchema(nil))
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"x": 5}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"x": float64(5)}, schema))

	err := ValidateParameters(map[string]any{}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	err = ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")
}

func TestValidateParameters_StringRequired(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"q": map[string]any{"type": "string"}},
		"required":   []string{"q"},
	}

	assert.Error(t, ValidateParameters(map[string]any{}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"q": "x"}, schema))
}

func TestStripProperty(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q":   map[string]any{"type": "string"},
			"ctx": map[string]any{"type": "object"},
		},
		"required": []any{"q", "ctx"},
	}

	out := StripProperty(schema, "ctx")

	assert.False(t, HasProperty(out, "ctx"))
	assert.True(t, HasProperty(out, "q"))
	assert.Equal(t, []string{"q"}, out["required"])

	// original untouched
	assert.True(t, HasProperty(schema, "ctx"))
	assert.Len(t, schema["required"], 2)
}

func TestStripProperty_DropsEmptyRequired(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"ctx": map[string]any{"type": "object"}},
		"required":   []string{"ctx"},
	}

	out := StripProperty(schema, "ctx")

	assert.NotContains(t, out, "required")
	assert.Empty(t, out["properties"])
}

func TestStripProperty_Absent(t *testing.T) {
	schema := map[string]any{"type": "object"}
	assert.Equal(t, schema, StripProperty(schema, "ctx"))
	assert.Nil(t, StripProperty(nil, "ctx"))
}
