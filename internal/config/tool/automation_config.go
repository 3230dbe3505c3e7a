package tool

const (
	DriverXdotool  = "xdotool"
	DriverCliclick = "cliclick"
)

// AutomationToolConfig configures the mouse and keyboard tools.
type AutomationToolConfig struct {
	Enabled bool `json:"enabled"`
	// Driver is empty for the platform default.
	Driver string `json:"driver,omitempty"`
}

func DefaultAutomationToolConfig() AutomationToolConfig {
	return AutomationToolConfig{Enabled: true}
}
