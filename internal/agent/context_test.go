package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

func TestPromptBuilder_SystemPrompt(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "USER.md"), []byte("Name: Tony\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "JARVIS.md"), []byte("   "), 0o644))

	pb := NewPromptBuilder(ws, "You are Jarvis.")
	pb.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }

	prompt := pb.BuildSystemPrompt()
	assert.Contains(t, prompt, "You are Jarvis.")
	assert.Contains(t, prompt, "2026-03-02 09:30 (Monday)")
	assert.Contains(t, prompt, ws)
	assert.Contains(t, prompt, "describe_screen_content first")
	assert.Contains(t, prompt, "## USER.md\n\nName: Tony")
	assert.NotContains(t, prompt, "## JARVIS.md")
}

func TestPromptBuilder_BuildMessages(t *testing.T) {
	pb := NewPromptBuilder(t.TempDir(), "persona")
	history := schema.NewMessages()
	history.AddUser("earlier")
	history.AddAssistant(nil, nil)

	msgs := pb.BuildMessages(history, "now", "window", "ui-session-1")
	require.Equal(t, 4, msgs.Len())
	assert.Equal(t, schema.RoleSystem, msgs.Messages[0].Role)
	assert.Contains(t, msgs.Messages[0].Text(), "Thread: ui-session-1")
	assert.Equal(t, "earlier", msgs.Messages[1].Text())
	last, ok := msgs.Last()
	require.True(t, ok)
	assert.Equal(t, schema.RoleUser, last.Role)
	assert.Equal(t, "now", last.Text())
}
