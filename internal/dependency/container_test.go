package dependency

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/config"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Agent.Workspace = t.TempDir()
	return &cfg
}

func TestNew_WiresServices(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedules = []config.ScheduleConfig{{Name: "morning", Cron: "0 9 * * *", Prompt: "brief me"}}

	c, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "openai", c.Provider().Name())
	assert.NotNil(t, c.MessageBus())
	assert.NotNil(t, c.AgentLoop())
	assert.NotNil(t, c.Metrics().Handler())
	assert.DirExists(t, c.Sessions().Dir())
	require.Len(t, c.Scheduler().List(), 1)
	assert.Equal(t, "morning", c.Scheduler().List()[0].Name)

	require.NoError(t, c.MessageBus().PublishInbound(context.Background(),
		bus.NewInboundMessage(bus.ChannelCLI, "user", bus.ChatIDDirect, "hi")))
	rec := httptest.NewRecorder()
	c.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `jarvis_queue_depth{queue="inbound"} 1`)
	assert.Contains(t, rec.Body.String(), `jarvis_queue_depth{queue="outbound"} 0`)
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedules = []config.ScheduleConfig{{Name: "bad", Cron: "not a cron", Prompt: "x"}}

	_, err := New(cfg)
	require.Error(t, err)
}

func TestNew_SelectsOllama(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.Active = "ollama"
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Provider().Name())
}

func TestNewToolRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tools.Automation.Enabled = false

	reg, err := NewToolRegistry(cfg)
	require.NoError(t, err)
	assert.NotNil(t, reg.GetTool(tools.ToolWeather))
	assert.NotNil(t, reg.GetTool(tools.ToolSearch))
	assert.NotNil(t, reg.GetTool(tools.ToolWebFetch))
	assert.NotNil(t, reg.GetTool(tools.ToolRunCommand))
	assert.Nil(t, reg.GetTool(tools.ToolClick))

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.NotNil(t, reg.GetTool(tools.ToolDescribeScreen))

		cfg.Tools.Automation.Enabled = true
		reg, err = NewToolRegistry(cfg)
		require.NoError(t, err)
		assert.NotNil(t, reg.GetTool(tools.ToolClick))
		assert.NotNil(t, reg.GetTool(tools.ToolTypeText))
		assert.NotNil(t, reg.GetTool(tools.ToolPressKey))
		assert.Equal(t, 8, reg.Len())
	}
}

func TestNewToolRegistry_WeatherFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "weather.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities:\n  paris: \"It's 20 degrees and sunny.\"\n"), 0o644))
	cfg.Tools.Weather.ReportsFile = path

	reg, err := NewToolRegistry(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(reg.GetTool(tools.ToolWeather).Parameters()), "paris")

	cfg.Tools.Weather.ReportsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewToolRegistry(cfg)
	require.Error(t, err)
}
