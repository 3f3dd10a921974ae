package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/pkg/models"
)

var checkLimitsCmd = &cobra.Command{
	Use:   "check-limits",
	Short: "Check priority distribution against thresholds",
	Long: `Compare the number of active tasks per priority against the configured
thresholds. The thresholds are advisory; exceeding one produces a warning,
not an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		check, err := TaskMgr.CheckLimits(Cfg.Limits)
		if err != nil {
			return fmt.Errorf("checking limits: %w", err)
		}

		fmt.Println("=== Priority Distribution (active tasks only) ===")
		for _, p := range models.Priorities {
			count := check.PriorityCounts[p]
			limit, ok := check.Limits[p]
			switch {
			case !ok:
				fmt.Printf("  %s: %d\n", p, count)
			case count > limit:
				fmt.Printf("⚠️  %s: %d (above typical threshold of %d)\n", p, count, limit)
			default:
				fmt.Printf("✓ %s: %d/%d\n", p, count, limit)
			}
		}

		if check.Balanced {
			fmt.Println("\n✓ Priority distribution looks balanced")
		} else {
			fmt.Println("\n💡 Note: You have a high concentration of priority tasks:")
			for _, alert := range check.Alerts {
				fmt.Printf("   %s\n", alert)
			}
			fmt.Println("   Consider if all these are truly high priority.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkLimitsCmd)
}
