package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/cron"
	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Inspect and trigger scheduled prompts",
}

func init() {
	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesRunCmd)
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled prompts",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// The scheduler is never started here; List only computes next runs.
		s := cron.NewScheduler(nil, nil, time.Local)
		for _, sc := range cfg.Schedules {
			if err := s.Add(cron.Schedule{Name: sc.Name, Expr: sc.Cron, Prompt: sc.Prompt}); err != nil {
				return err
			}
		}
		list := s.List()
		if len(list) == 0 {
			fmt.Println("No scheduled prompts.")
			return nil
		}
		fmt.Printf("%-20s %-18s %-18s %s\n", "Name", "Cron", "Next Run", "Prompt")
		for _, st := range list {
			fmt.Printf("%-20s %-18s %-18s %s\n",
				truncStr(st.Name, 19), st.Expr, st.NextRun.Format("2006-01-02 15:04"), truncStr(st.Prompt, 40))
		}
		return nil
	},
}

var schedulesRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a scheduled prompt now and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, container, cleanup, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := container.Scheduler().RunNow(ctx, args[0]); err != nil {
			cmdutils.PrintError(err)
			return err
		}
		select {
		case out := <-container.MessageBus().OutboundChan():
			cmdutils.PrintResponse(out.Content)
		default:
		}
		return nil
	},
}

func truncStr(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
