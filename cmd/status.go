package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/config"
	"github.com/jarvisdesk/jarvis/internal/config/provider"
	"github.com/jarvisdesk/jarvis/internal/dependency"
	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show jarvis status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s jarvis Status\n\n", cmdutils.Logo)
	fmt.Printf("Config:    %s %s\n", cfgPath, mark(exists(cfgPath)))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	ws := cfg.WorkspacePath()
	active, _ := cfg.ActiveProvider()
	fmt.Printf("Workspace: %s %s\n", ws, mark(exists(ws)))
	fmt.Printf("Model:     %s (%s)\n", cfg.Agent.Model, active)
	fmt.Printf("Logs:      %s\n\n", logFile())

	fmt.Println("Providers:")
	for _, name := range provider.Names() {
		p := cfg.Providers.ByName(name)
		switch {
		case name == provider.ProviderOllama:
			fmt.Printf("  %-10s ✓ %s\n", name, p.APIBase)
		case p.APIKey != "":
			fmt.Printf("  %-10s ✓\n", name)
		default:
			fmt.Printf("  %-10s (not set)\n", name)
		}
	}

	search := cfg.Tools.Search
	fmt.Printf("\nSearch:    %s %s\n", search.Backend, mark(search.APIKey != ""))

	reg, err := dependency.NewToolRegistry(cfg)
	if err != nil {
		fmt.Printf("Tools:     (could not build: %v)\n", err)
		return nil
	}
	fmt.Println("\nTools:")
	for _, name := range []tools.ToolName{
		tools.ToolWeather, tools.ToolSearch, tools.ToolWebFetch, tools.ToolRunCommand,
		tools.ToolClick, tools.ToolTypeText, tools.ToolPressKey, tools.ToolDescribeScreen,
	} {
		fmt.Printf("  %-24s %s\n", name, mark(reg.GetTool(name) != nil))
	}

	fmt.Printf("\nSchedules: %d\n", len(cfg.Schedules))
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
