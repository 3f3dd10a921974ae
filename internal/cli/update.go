package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var updateStatusCmd = &cobra.Command{
	Use:   "update-status <task-file> <status>",
	Short: "Update a task's status",
	Long: `Update the status of a task. The filename may be given without its .md
extension. Status accepts full names (not_started, started, blocked, done)
or the single-letter aliases n, s, b, d.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		status, err := models.ParseStatus(args[1])
		if err != nil {
			return err
		}

		filename := core.EnsureMarkdownExt(args[0])
		if err := TaskMgr.UpdateStatus(filename, status); err != nil {
			return fmt.Errorf("updating status: %w", err)
		}

		fmt.Printf("Updated %s status to '%s'\n", filename, status)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <task-file>",
	Short: "Mark a task as started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		filename := core.EnsureMarkdownExt(args[0])
		if err := TaskMgr.StartTask(filename); err != nil {
			return fmt.Errorf("starting task: %w", err)
		}

		fmt.Printf("Updated %s status to 'started'\n", filename)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <task-file>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		filename := core.EnsureMarkdownExt(args[0])
		if err := TaskMgr.CompleteTask(filename); err != nil {
			return fmt.Errorf("completing task: %w", err)
		}

		fmt.Printf("Updated %s status to 'done'\n", filename)
		return nil
	},
}

func init() {
	updateStatusCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completeTaskFiles(true)(cmd, args, toComplete)
		}
		if len(args) == 1 {
			return completeStatuses(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	startCmd.ValidArgsFunction = completeTaskFiles(false)
	completeCmd.ValidArgsFunction = completeTaskFiles(false)

	rootCmd.AddCommand(updateStatusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
}
