package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/pkg/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show task summary statistics",
	Long: `Show task counts by priority, category, and status, plus the estimated
time committed per priority band. Priority and category counts cover
active tasks only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		summary, err := TaskMgr.Summary()
		if err != nil {
			return fmt.Errorf("building summary: %w", err)
		}
		if summary.TotalTasks == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Println("=== Task Summary ===")
		fmt.Printf("Total Tasks: %d (%d active)\n", summary.TotalTasks, summary.ActiveTasks)

		fmt.Println("\nBy Priority:")
		for _, p := range models.Priorities {
			fmt.Printf("  %s: %d\n", p, summary.ByPriority[p])
		}

		fmt.Println("\nBy Category:")
		for _, c := range categoryOrder(summary.ByCategory) {
			fmt.Printf("  %s: %d\n", c, summary.ByCategory[c])
		}

		fmt.Println("\nBy Status:")
		for _, s := range models.Statuses {
			fmt.Printf("  %s: %d\n", s.Label(), summary.ByStatus[s])
		}

		fmt.Println("\nEstimated Time:")
		for _, p := range models.Priorities {
			est := summary.TimeByPriority[p]
			if est.TotalMinutes == 0 {
				continue
			}
			fmt.Printf("  %s: %d minutes (%.1f hours)\n", p, est.TotalMinutes, est.TotalHours)
		}

		return nil
	},
}

// categoryOrder sorts categories by descending count, ties alphabetical.
func categoryOrder(counts map[models.Category]int) []models.Category {
	cats := make([]models.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
