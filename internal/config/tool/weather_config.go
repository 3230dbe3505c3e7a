package tool

// WeatherToolConfig configures the get_weather tool.
type WeatherToolConfig struct {
	// ReportsFile is an optional YAML city table replacing the built-in one.
	ReportsFile string `json:"reportsFile,omitempty"`
}
