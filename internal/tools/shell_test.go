package tools

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
}

func TestExecTool_Output(t *testing.T) {
	skipOnWindows(t)
	tool := NewExecTool(t.TempDir(), 5, false, "")

	got, err := tool.Execute(context.Background(), map[string]any{"command": "echo hello; echo oops 1>&2; exit 3"})
	require.NoError(t, err)
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "STDERR:\noops")
	assert.Contains(t, got, "Exit code: 3")
}

func TestExecTool_NoOutput(t *testing.T) {
	skipOnWindows(t)
	got, err := NewExecTool(t.TempDir(), 5, false, "").Execute(context.Background(), map[string]any{"command": "true"})
	require.NoError(t, err)
	assert.Equal(t, "(no output)", got)
}

func TestExecTool_Truncates(t *testing.T) {
	skipOnWindows(t)
	got, err := NewExecTool(t.TempDir(), 5, false, "").Execute(context.Background(),
		map[string]any{"command": "head -c 12000 /dev/zero | tr '\\0' a"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 100)))
	assert.Contains(t, got, "(truncated, 2000 more chars)")
}

func TestExecTool_Timeout(t *testing.T) {
	skipOnWindows(t)
	got, err := NewExecTool(t.TempDir(), 1, false, "").Execute(context.Background(), map[string]any{"command": "sleep 5"})
	require.NoError(t, err)
	assert.Equal(t, "Error: Command timed out after 1s", got)
}

func TestExecTool_Guard(t *testing.T) {
	tool := NewExecTool(t.TempDir(), 5, true, "")
	tests := []struct {
		command string
		want    string
	}{
		{"rm -rf /", "dangerous pattern"},
		{"shutdown now", "dangerous pattern"},
		{"cat ../secret", "path traversal"},
		{"cat /etc/passwd", "path outside working dir"},
	}
	for _, tt := range tests {
		got, err := tool.Execute(context.Background(), map[string]any{"command": tt.command})
		require.NoError(t, err)
		assert.Contains(t, got, tt.want, tt.command)
	}
}

func TestExecTool_RequiresCommand(t *testing.T) {
	got, err := NewExecTool("", 5, false, "").Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Error: command is required", got)
}

func TestResolveShell(t *testing.T) {
	assert.Equal(t, []string{"cmd", "/C"}, resolveShell("", "windows"))
	assert.Equal(t, []string{"sh", "-c"}, resolveShell("", "linux"))
	assert.Equal(t, []string{"bash", "-c"}, resolveShell(" bash  -c ", "windows"))
}
