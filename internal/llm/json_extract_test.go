package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "json code block",
			response: "Here is the plan:\n```json\n{\"name\": \"Foundation\"}\n```\nLet me know.",
			want:     `{"name": "Foundation"}`,
		},
		{
			name:     "untagged code block",
			response: "```\n[{\"name\": \"a\"}, {\"name\": \"b\"}]\n```",
			want:     `[{"name": "a"}, {"name": "b"}]`,
		},
		{
			name:     "raw object with surrounding prose",
			response: `Sure! {"difficulty": 4, "name": "Build it"} Hope that helps.`,
			want:     `{"difficulty": 4, "name": "Build it"}`,
		},
		{
			name:     "raw array",
			response: `[1, 2, 3] trailing text`,
			want:     `[1, 2, 3]`,
		},
		{
			name:     "nested brackets resolve to outer object",
			response: `{"tasks": [{"name": "x", "deps": ["a", "b"]}]}`,
			want:     `{"tasks": [{"name": "x", "deps": ["a", "b"]}]}`,
		},
		{
			name:     "braces inside string literals are ignored",
			response: `{"note": "use {curly} and ]square[ freely"}`,
			want:     `{"note": "use {curly} and ]square[ freely"}`,
		},
		{
			name:     "non-json code block falls through to raw scan",
			response: "```python\nprint('hi')\n```\nResult: {\"ok\": true}",
			want:     `{"ok": true}`,
		},
		{
			name:     "no json at all",
			response: "I could not produce a plan for that goal.",
			wantErr:  true,
		},
		{
			name:     "unbalanced braces",
			response: `{"name": "broken"`,
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONAs(t *testing.T) {
	type candidate struct {
		Name       string `json:"name"`
		Difficulty int    `json:"difficulty"`
	}

	got, err := ExtractJSONAs[[]candidate]("```json\n[{\"name\": \"Forge a hook\", \"difficulty\": 3}]\n```")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Forge a hook", got[0].Name)
	assert.Equal(t, 3, got[0].Difficulty)

	// Valid JSON of the wrong shape is an unmarshal error.
	_, err = ExtractJSONAs[[]candidate](`{"name": "not an array"}`)
	assert.Error(t, err)

	_, err = ExtractJSONAs[[]candidate]("no json here")
	assert.Error(t, err)
}
