package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/storage"
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Inspect or clear the quick-capture backlog",
}

var backlogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the backlog items awaiting triage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if BacklogMgr == nil {
			return fmt.Errorf("backlog manager not initialized")
		}

		content, err := BacklogMgr.Read()
		if err != nil {
			return fmt.Errorf("reading backlog: %w", err)
		}
		if content.IsClear() {
			fmt.Println("Backlog is clear.")
			return nil
		}

		fmt.Printf("%d item(s) in %s:\n\n", len(content.Items), storage.BacklogFileName)
		for _, item := range content.Items {
			fmt.Printf("- %s\n", item.Text)
			for _, sub := range item.Subitems {
				fmt.Printf("  - %s\n", sub)
			}
		}
		return nil
	},
}

var backlogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the backlog to its cleared state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if BacklogMgr == nil {
			return fmt.Errorf("backlog manager not initialized")
		}

		if err := BacklogMgr.Clear(); err != nil {
			return fmt.Errorf("clearing backlog: %w", err)
		}

		fmt.Println("Backlog cleared.")
		return nil
	},
}

func init() {
	backlogCmd.AddCommand(backlogShowCmd)
	backlogCmd.AddCommand(backlogClearCmd)
	rootCmd.AddCommand(backlogCmd)
}
