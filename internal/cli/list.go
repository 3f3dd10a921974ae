package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var (
	listCategory    string
	listPriority    string
	listStatus      string
	listIncludeDone bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by priority",
	Long: `List tasks grouped by priority from P0 down to P3.

Completed tasks are hidden unless --include-done is set or --status names
them. Filters accept comma-separated values; status accepts full names or
the single-letter aliases n, s, b, d.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		filter, err := core.ParseTaskFilter(listCategory, listPriority, listStatus, listIncludeDone)
		if err != nil {
			return err
		}

		tasks, err := TaskMgr.ListTasks(filter)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found matching criteria.")
			return nil
		}

		byPriority := make(map[models.Priority][]models.Task)
		for _, t := range tasks {
			byPriority[t.Priority] = append(byPriority[t.Priority], t)
		}

		for _, p := range models.Priorities {
			group := byPriority[p]
			if len(group) == 0 {
				continue
			}
			fmt.Printf("\n=== %s Tasks ===\n", p)
			for _, t := range group {
				category := t.Category
				if category == "" {
					category = models.CategoryOther
				}
				fmt.Printf("%s [%-10s] %s (%s)\n", t.Status.Icon(), category, t.Title, t.Filename)
			}
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category (comma-separated)")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (comma-separated)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (comma-separated; full names or n, s, b, d)")
	listCmd.Flags().BoolVar(&listIncludeDone, "include-done", false, "Include completed tasks")
	_ = listCmd.RegisterFlagCompletionFunc("category", completeCategories)
	_ = listCmd.RegisterFlagCompletionFunc("priority", completePriorities)
	_ = listCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	rootCmd.AddCommand(listCmd)
}
