package tools

import (
	"sort"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolWeather        ToolName = "get_weather"
	ToolSearch         ToolName = "search_on_web"
	ToolWebFetch       ToolName = "web_fetch"
	ToolRunCommand     ToolName = "run_command"
	ToolClick          ToolName = "click_coordinates"
	ToolTypeText       ToolName = "type_text"
	ToolPressKey       ToolName = "press_key"
	ToolDescribeScreen ToolName = "describe_screen_content"
)

// Registry holds a set of named tools and exposes them for execution.
type Registry struct {
	tools map[string]schema.Tool
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.tools[string(name)]
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for k := range r.tools {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) AllTools() *ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(r.tools))}
	for k, t := range r.tools {
		list.tools[k] = t
	}
	return &list
}
