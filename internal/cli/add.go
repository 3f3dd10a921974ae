package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var (
	addCategory string
	addPriority string
	addTime     int
	addContent  string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Long: `Create a new task file in the Tasks directory.

The filename is derived from the title; path separators are replaced so
the file stays inside the directory. Category defaults to other, priority
and time estimate to the configured defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		title := args[0]
		opts := core.CreateTaskOptions{
			Category:      models.Category(addCategory),
			Priority:      Cfg.DefaultPriority,
			EstimatedTime: Cfg.DefaultEstimatedTime,
			Content:       addContent,
		}
		if addPriority != "" {
			priority, err := models.ParsePriority(addPriority)
			if err != nil {
				return err
			}
			opts.Priority = priority
		}
		if addTime > 0 {
			opts.EstimatedTime = addTime
		}

		filename, err := TaskMgr.CreateTask(title, opts)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Printf("Created task: %s\n", filename)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addCategory, "category", "", "Task category (outreach, technical, research, writing, admin, social, other)")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Task priority (P0, P1, P2, P3)")
	addCmd.Flags().IntVar(&addTime, "time", 0, "Estimated time in minutes")
	addCmd.Flags().StringVar(&addContent, "content", "", "Task body placed under the title heading")
	_ = addCmd.RegisterFlagCompletionFunc("category", completeCategories)
	_ = addCmd.RegisterFlagCompletionFunc("priority", completePriorities)
	rootCmd.AddCommand(addCmd)
}
