package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuilder(t *testing.T) {
	reg := NewRegistryBuilder().
		WithTool(NewWeatherTool(nil)).
		WithTool(nil).
		WithTools(NewExecTool("", 0, false, ""), NewWebFetchTool(0)).
		Build()

	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, []string{"get_weather", "run_command", "web_fetch"}, reg.Names())
	assert.NotNil(t, reg.GetTool(ToolWeather))
	assert.Nil(t, reg.GetTool(ToolPressKey))
}

func TestToolList_DefinitionsSorted(t *testing.T) {
	list := NewRegistryBuilder().
		WithTool(NewWebFetchTool(0)).
		WithTool(NewWeatherTool(nil)).
		Build().AllTools()

	defs := list.Definitions()
	require.Len(t, defs, 2)
	fn := defs[0]["function"].(map[string]any)
	assert.Equal(t, "get_weather", fn["name"])
	params := fn["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, "function", defs[1]["type"])
}
