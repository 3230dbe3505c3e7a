package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Weather    WeatherToolConfig    `json:"weather"`
	Search     SearchToolConfig     `json:"search"`
	Exec       ExecToolConfig       `json:"exec"`
	Automation AutomationToolConfig `json:"automation"`
	Vision     VisionToolConfig     `json:"vision"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		Search:     DefaultSearchToolConfig(),
		Exec:       DefaultExecToolConfig(),
		Automation: DefaultAutomationToolConfig(),
		Vision:     DefaultVisionToolConfig(),
	}
}
