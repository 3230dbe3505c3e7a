package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jarvisdesk/jarvis/internal/session"
)

func TestSessionRow(t *testing.T) {
	updated := time.Date(2026, 3, 4, 5, 6, 0, 0, time.Local)
	row := sessionRow(session.Info{Key: "cli:direct", MessageCount: 4, UpdatedAt: updated})

	fields := strings.Fields(row)
	assert.Equal(t, []string{"cli:direct", "4", "2026-03-04", "05:06"}, fields)
}

func TestSessionRow_MissingTimestamp(t *testing.T) {
	row := sessionRow(session.Info{Key: "cron:morning"})
	assert.Equal(t, []string{"cron:morning", "0", "-"}, strings.Fields(row))
}
