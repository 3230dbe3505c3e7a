package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultWeatherReports is the built-in city table.
func DefaultWeatherReports() map[string]string {
	return map[string]string{
		"nyc": "It might be cloudy in nyc",
		"sf":  "It's always sunny in sf",
	}
}

// weatherFile is the on-disk shape of tools.weather.reportsFile.
type weatherFile struct {
	Cities map[string]string `yaml:"cities"`
}

// LoadWeatherReports reads a YAML city table. City names are lowercased.
func LoadWeatherReports(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weather reports: %w", err)
	}
	var f weatherFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse weather reports: %w", err)
	}
	if len(f.Cities) == 0 {
		return nil, fmt.Errorf("weather reports %s: no cities defined", path)
	}
	out := make(map[string]string, len(f.Cities))
	for city, report := range f.Cities {
		out[normalizeKey(city)] = report
	}
	return out, nil
}

// WeatherTool answers weather questions from a fixed table of cities.
type WeatherTool struct {
	reports map[string]string
	cities  []string
}

// NewWeatherTool creates a WeatherTool. A nil or empty table selects the defaults.
func NewWeatherTool(reports map[string]string) *WeatherTool {
	if len(reports) == 0 {
		reports = DefaultWeatherReports()
	}
	cities := make([]string, 0, len(reports))
	for c := range reports {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return &WeatherTool{reports: reports, cities: cities}
}

func (t *WeatherTool) Name() string        { return string(ToolWeather) }
func (t *WeatherTool) Description() string { return "Use this to get weather information." }
func (t *WeatherTool) Parameters() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "City to get the weather for",
				"enum":        t.cities,
			},
		},
		"required": []string{"city"},
	}
	data, _ := json.Marshal(schema)
	return data
}

func (t *WeatherTool) Execute(_ context.Context, params map[string]any) (string, error) {
	city := normalizeKey(stringParam(params, "city"))
	report, ok := t.reports[city]
	if !ok {
		return "", fmt.Errorf("unknown city %q", city)
	}
	return report, nil
}
