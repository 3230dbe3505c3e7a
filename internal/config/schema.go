// Package config defines the configuration schema for jarvis.
//
// JSON keys use camelCase. Sub-packages hold the per-concern sections so
// consumers can import only what they need.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jarvisdesk/jarvis/internal/config/agent"
	"github.com/jarvisdesk/jarvis/internal/config/provider"
	"github.com/jarvisdesk/jarvis/internal/config/tool"
	"github.com/jarvisdesk/jarvis/internal/config/window"
)

// ScheduleConfig is one prompt the scheduler sends to the agent.
type ScheduleConfig struct {
	Name   string `json:"name"`
	Cron   string `json:"cron"` // standard 5-field expression
	Prompt string `json:"prompt"`
}

// Config is the root configuration object.
type Config struct {
	Agent     agent.AgentConfig        `json:"agent"`
	Providers provider.ProvidersConfig `json:"providers"`
	Tools     tool.ToolsConfig         `json:"tools"`
	Window    window.WindowConfig      `json:"window"`
	Schedules []ScheduleConfig         `json:"schedules"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Agent:     agent.DefaultAgentConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Window:    window.DefaultWindowConfig(),
		Schedules: []ScheduleConfig{},
	}
}

// WorkspacePath returns the expanded workspace directory.
func (c *Config) WorkspacePath() string {
	return ExpandHome(c.Agent.Workspace)
}

// ActiveProvider returns the selected provider name and its credentials.
// An unknown name falls back to openai.
func (c *Config) ActiveProvider() (string, provider.ProviderConfig) {
	name := strings.ToLower(strings.TrimSpace(c.Providers.Active))
	if p := c.Providers.ByName(name); p != nil {
		return name, *p
	}
	return provider.ProviderOpenAI, c.Providers.OpenAI
}

// VisionAPIKey returns the key used for the screen-vision call, which always
// goes to the OpenAI-compatible endpoint.
func (c *Config) VisionAPIKey() (apiKey, apiBase string) {
	return c.Providers.OpenAI.APIKey, c.Providers.OpenAI.APIBase
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
