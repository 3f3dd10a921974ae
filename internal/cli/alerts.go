package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts and warnings",
	Long: `Evaluate alert conditions against the current tasks and backlog and
display any triggered alerts.

Alerts check for priority overload, aging tasks, and backlog size.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (observability may be disabled)")
		}
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		backlogItems := 0
		if BacklogMgr != nil {
			if n, err := BacklogMgr.Count(); err == nil {
				backlogItems = n
			}
		}

		alerts := AlertEngine.Evaluate(observability.AlertSnapshot{
			Tasks:        tasks,
			BacklogItems: backlogItems,
			Now:          time.Now(),
		})

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%d active alert(s):\n\n", len(alerts))
		for _, alert := range alerts {
			severity := strings.ToUpper(string(alert.Severity))
			fmt.Printf("  [%s] %s\n", severity, alert.Message)
			fmt.Printf("         triggered at %s\n\n", alert.TriggeredAt.Format("2006-01-02 15:04 UTC"))
		}

		if alertsNotify {
			if Notifier == nil {
				return fmt.Errorf("notifier not configured (set notifications.slack_webhook_url in config.yaml)")
			}
			if err := Notifier.Notify(alerts); err != nil {
				return fmt.Errorf("sending notifications: %w", err)
			}
			fmt.Println("Notifications sent.")
		}

		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Send triggered alerts to the configured notifier")
	rootCmd.AddCommand(alertsCmd)
}
