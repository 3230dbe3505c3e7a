package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/dependency"
	"github.com/jarvisdesk/jarvis/internal/shared/llmutils"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the agent can call",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := dependency.NewToolRegistry(cfg)
		if err != nil {
			return err
		}
		for _, name := range reg.Names() {
			t := reg.GetTool(tools.ToolName(name))
			fmt.Printf("%-24s %s\n", name, llmutils.Truncate(t.Description(), 90))
		}
		return nil
	},
}
