package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/config"
	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and workspace",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	existed := exists(cfgPath)
	if err := config.Save(cfg, cfgPath); err != nil {
		return err
	}
	if existed {
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	workspace := cfg.WorkspacePath()
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	fmt.Printf("✓ Workspace at %s\n", workspace)

	createWorkspaceTemplates(workspace)

	fmt.Printf("\n%s jarvis is ready!\n\n", cmdutils.Logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your OpenAI API key to %s\n", cfgPath)
	fmt.Printf("     or put OPENAI_API_KEY in %s\n", filepath.Join(config.DataDir(), ".env"))
	fmt.Println("  2. Add TAVILY_API_KEY for web search")
	fmt.Println("  3. Chat: jarvis")
	return nil
}

var workspaceTemplates = map[string]string{
	"JARVIS.md": `# Instructions

- Be concise and address the user politely.
- Explain what you are about to do before running commands or touching the mouse and keyboard.
- Ask before running anything that deletes or overwrites files.
`,
	"USER.md": `# User

Information about the user goes here.

## Preferences

- Communication style: (casual/formal)
- Timezone: (your timezone)
- Language: (your preferred language)
`,
	"weather.yaml": `# City table for get_weather. Point tools.weather.reportsFile here to use it.
cities:
  nyc: It might be cloudy in nyc
  sf: It's always sunny in sf
`,
}

func createWorkspaceTemplates(workspace string) {
	for filename, content := range workspaceTemplates {
		p := filepath.Join(workspace, filename)
		if _, err := os.Stat(p); os.IsNotExist(err) {
			_ = os.WriteFile(p, []byte(content), 0o644)
			fmt.Printf("  Created %s\n", filename)
		}
	}

	_ = os.MkdirAll(filepath.Join(workspace, "sessions"), 0o755)
}
