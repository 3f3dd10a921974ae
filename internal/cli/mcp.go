package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	siftmcp "github.com/ecrawford/sift/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the sift MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sift MCP server on stdio",
	Long: `Start the sift MCP server on stdio transport.

The server exposes sift functionality as MCP tools that AI assistants can
call: list_tasks, create_task, update_task_status, get_task_summary,
check_priority_limits, list_contacts, add_contact, search_contacts,
get_system_status, process_backlog, clear_backlog, prune_completed_tasks,
and process_backlog_with_dedup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		srv := siftmcp.NewServer(TaskMgr, ContactMgr, Triage, BacklogMgr, Cfg, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
