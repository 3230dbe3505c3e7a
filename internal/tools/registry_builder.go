package tools

import "github.com/jarvisdesk/jarvis/internal/schema"

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools map[string]schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A nil tool is skipped so optional tools can be passed unconditionally.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	if tool == nil {
		return b
	}
	b.tools[tool.Name()] = tool
	return b
}

// WithTools adds every tool in ts.
func (b *RegistryBuilder) WithTools(ts ...schema.Tool) *RegistryBuilder {
	for _, t := range ts {
		b.WithTool(t)
	}
	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() *Registry {
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{tools: tools}
}
