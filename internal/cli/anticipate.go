package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
)

var anticipateCmd = &cobra.Command{
	Use:   "anticipate",
	Short: "Suggest proactive next steps",
	Long: `Look at the current tasks, the time of day, and GOALS.md, and suggest
what to pick up next: work in flight, high priorities waiting, blockers to
review, category balance, and cleanup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		goals := core.ReadGoals(BasePath)
		suggestions := core.BuildSuggestions(tasks, goals, Cfg.PruneDays, time.Now())

		fmt.Println("=== Anticipating Next Steps ===")
		fmt.Println()

		if len(suggestions) == 0 {
			fmt.Println("No specific suggestions at this time. System appears well-managed!")
			return nil
		}

		for i, s := range suggestions {
			fmt.Printf("%d. %s:\n", i+1, s.Type)
			for _, item := range s.Items {
				fmt.Printf("   • %s\n", item)
			}
			if s.Command != "" {
				fmt.Printf("   → Run: %s\n", s.Command)
			}
			fmt.Println()
		}

		fmt.Println("\n💡 Quick Actions:")
		fmt.Println("1. Review and start highest priority task")
		fmt.Println("2. Process any items in BACKLOG.md")
		fmt.Println("3. Update status of in-progress tasks")
		fmt.Println("4. Add new contacts from recent interactions to CRM")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(anticipateCmd)
}
