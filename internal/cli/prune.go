package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var pruneDaysOld int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete completed tasks older than a specified time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		daysOld := pruneDaysOld
		if daysOld <= 0 {
			daysOld = Cfg.PruneDays
		}

		tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		titles := make(map[string]string)
		doneCount := 0
		for _, t := range tasks {
			if t.Status == models.StatusDone {
				doneCount++
				titles[t.Filename] = t.Title
			}
		}
		if doneCount == 0 {
			fmt.Println("No completed tasks to prune.")
			return nil
		}

		deleted, err := TaskMgr.Prune(daysOld)
		if err != nil {
			return fmt.Errorf("pruning tasks: %w", err)
		}

		for _, filename := range deleted {
			label := titles[filename]
			if label == "" {
				label = filename
			}
			fmt.Printf("Pruned old task: %s\n", label)
		}
		fmt.Printf("\nPruned %d completed tasks older than %d days.\n", len(deleted), daysOld)
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDaysOld, "days-old", 0, "age threshold in days (default: prune_days from config)")
	rootCmd.AddCommand(pruneCmd)
}
