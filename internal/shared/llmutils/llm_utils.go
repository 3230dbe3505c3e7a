package llmutils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens a string to at most n bytes, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return strings.TrimSpace(reThink.ReplaceAllString(s, ""))
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ToolHint generates a short hint string for a list of tool calls, e.g. `search_on_web("weather in London")`.
func ToolHint(tcs []schema.ToolCall) string {
	parts := make([]string, 0, len(tcs))
	for _, tc := range tcs {
		parts = append(parts, CallHint(tc))
	}
	return strings.Join(parts, ", ")
}

// CallHint renders one call with its first string argument in key order.
func CallHint(tc schema.ToolCall) string {
	keys := make([]string, 0, len(tc.Arguments))
	for k := range tc.Arguments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var firstVal string
	for _, k := range keys {
		if s, ok := tc.Arguments[k].(string); ok && s != "" {
			firstVal = s
			break
		}
	}
	if firstVal == "" {
		return tc.Name
	}
	if len(firstVal) > 40 {
		firstVal = firstVal[:40] + "…"
	}
	return fmt.Sprintf("%s(%q)", tc.Name, firstVal)
}
