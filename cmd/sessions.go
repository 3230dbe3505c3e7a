package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List persisted conversation threads",
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr, err := openSessions()
		if err != nil {
			return err
		}
		infos := mgr.ListSessions()
		if len(infos) == 0 {
			fmt.Println("No sessions.")
			return nil
		}
		fmt.Printf("%-50s %-8s %-20s\n", "Thread", "Msgs", "Updated")
		for _, info := range infos {
			fmt.Println(sessionRow(info))
		}
		return nil
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <thread>",
	Short: "Delete a conversation thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		mgr, err := openSessions()
		if err != nil {
			return err
		}
		if err := mgr.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsRmCmd)
}

func sessionRow(info session.Info) string {
	updated := "-"
	if !info.UpdatedAt.IsZero() {
		updated = info.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%-50s %-8d %-20s", info.Key, info.MessageCount, updated)
}

func openSessions() (*session.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return session.NewManager(cfg.WorkspacePath())
}
