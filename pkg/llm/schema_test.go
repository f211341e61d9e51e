package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var listSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"score": {Type: TypeNumber, Description: "0-100", Minimum: Float(0), Maximum: Float(100)},
		"count": {Type: TypeInteger},
		"items": {
			Type: TypeArray,
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"ok":      {Type: TypeBoolean},
					"snippet": {Type: TypeString},
				},
				Required: []string{"ok"},
			},
		},
	},
	Required: []string{"score", "items"},
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSchemaValidate(t *testing.T) {
	valid := []string{
		`{"score":80,"items":[]}`,
		`{"score":80.5,"count":3,"items":[{"ok":true},{"ok":false,"snippet":"<h1>"}]}`,
		`{"score":1,"items":[{"ok":true,"snippet":null}]}`,
	}
	for _, v := range valid {
		assert.NoError(t, listSchema.Validate(decode(t, v)), v)
	}

	invalid := map[string]string{
		`{"items":[]}`:                          `$: missing required field "score"`,
		`{"score":"80","items":[]}`:             `$.score: expected number, got string`,
		`{"score":1,"count":1.5,"items":[]}`:    `$.count: expected integer, got number`,
		`{"score":1,"items":[{"snippet":"x"}]}`: `$.items[0]: missing required field "ok"`,
		`{"score":1,"items":{}}`:                `$.items: expected array, got object`,
		`{"score":150,"items":[]}`:              `$.score: 150 is above maximum 100`,
		`{"score":-40,"items":[]}`:              `$.score: -40 is below minimum 0`,
		`{"score":1e30,"items":[]}`:             `$.score: 1e+30 is above maximum 100`,
	}
	for in, msg := range invalid {
		err := listSchema.Validate(decode(t, in))
		require.Error(t, err, in)
		assert.Equal(t, msg, err.Error())
	}
}

func TestSchemaGenAI(t *testing.T) {
	got := listSchema.GenAI()
	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"score", "items", "count"}, got.PropertyOrdering)
	assert.Equal(t, genai.TypeArray, got.Properties["items"].Type)
	assert.Equal(t, genai.TypeBoolean, got.Properties["items"].Items.Properties["ok"].Type)
	assert.Equal(t, "0-100", got.Properties["score"].Description)
	require.NotNil(t, got.Properties["score"].Minimum)
	assert.Equal(t, 0.0, *got.Properties["score"].Minimum)
	require.NotNil(t, got.Properties["score"].Maximum)
	assert.Equal(t, 100.0, *got.Properties["score"].Maximum)
}

func TestSchemaJSONSchema(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"severity": {Type: TypeString, Enum: []string{"LOW", "HIGH"}},
			"score":    {Type: TypeNumber, Minimum: Float(0), Maximum: Float(100)},
		},
		Required: []string{"severity"},
	}
	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"severity": map[string]any{"type": "string", "enum": []string{"LOW", "HIGH"}},
			"score":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
		},
		"required": []string{"severity"},
	}
	if diff := cmp.Diff(want, s.JSONSchema()); diff != "" {
		t.Errorf("JSONSchema() mismatch (-want +got):\n%s", diff)
	}
}
