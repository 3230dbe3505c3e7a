package llmutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

func TestStripThink(t *testing.T) {
	assert.Equal(t, "answer", StripThink("<think>hmm\nlonger</think> answer"))
	assert.Equal(t, "plain", StripThink("plain"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}

func TestToolHint(t *testing.T) {
	calls := []schema.ToolCall{
		{Name: "search_on_web", Arguments: map[string]any{"query": "weather in London"}},
		{Name: "click_coordinates", Arguments: map[string]any{"x": 10.0, "y": 20.0}},
		{Name: "type_text", Arguments: map[string]any{"text": strings.Repeat("a", 50)}},
	}

	hint := ToolHint(calls)

	assert.Contains(t, hint, `search_on_web("weather in London")`)
	assert.Contains(t, hint, "click_coordinates,")
	assert.Contains(t, hint, "…")
}

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "x", StringOrDefault("x", "y"))
	assert.Equal(t, "y", StringOrDefault("", "y"))
}
