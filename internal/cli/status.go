package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show comprehensive system status with actionable insights",
	Long: `Render a full snapshot of the workspace: priority and category
distributions, in-progress tasks, time-based suggestions, immediate actions,
health notes, and quick stats. Completed tasks are excluded from the
distributions but counted for cleanup hints.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := buildStatusReport()
		if err != nil {
			return err
		}
		printStatusReport(report)
		return nil
	},
}

func buildStatusReport() (*core.StatusReport, error) {
	if TaskMgr == nil || ContactMgr == nil {
		return nil, fmt.Errorf("managers not initialized")
	}

	tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	contacts, err := ContactMgr.ListContacts(core.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	backlogItems := 0
	if BacklogMgr != nil {
		if n, err := BacklogMgr.Count(); err == nil {
			backlogItems = n
		}
	}

	return core.BuildStatusReport(tasks, contacts, backlogItems, Cfg.Limits, time.Now()), nil
}

func printStatusReport(report *core.StatusReport) {
	fmt.Println("=== 📊 Current System Status ===")
	fmt.Println()

	thresholds := map[models.Priority]int{
		models.P0: Cfg.Limits.P0,
		models.P1: Cfg.Limits.P1,
		models.P2: Cfg.Limits.P2,
	}

	fmt.Println("## Priority Distribution:")
	for _, p := range models.Priorities {
		count := report.PriorityCounts[p]
		if report.PriorityFlagged[p] {
			fmt.Printf("- **%s**: %d ⚠️ (above typical threshold of %d)\n", p, count, thresholds[p])
		} else {
			fmt.Printf("- **%s**: %d\n", p, count)
		}
	}

	if report.HighPriorityCount > 5 {
		fmt.Printf("\n💡 Note: You have %d high-priority (P0/P1) tasks - consider if they're all truly urgent\n",
			report.HighPriorityCount)
	}

	fmt.Println("\n## Task Status:")
	statusNames := []struct {
		status models.TaskStatus
		name   string
	}{
		{models.StatusNotStarted, "Not Started"},
		{models.StatusStarted, "In Progress"},
		{models.StatusBlocked, "Blocked"},
	}
	for _, sn := range statusNames {
		count := report.StatusCounts[sn.status]
		if count == 0 {
			continue
		}
		fmt.Printf("- %s: %d\n", sn.name, count)
		if sn.status == models.StatusStarted {
			for _, title := range report.StartedTitles {
				fmt.Printf("  → %s\n", title)
			}
		}
	}

	fmt.Println("\n## Category Distribution:")
	for _, share := range report.Categories {
		fmt.Printf("- %s: %d (%.0f%%)\n", share.Category, share.Count, share.Percent)
	}

	fmt.Printf("\n## 💡 Time-Based Insights (%s, %d:00):\n",
		report.GeneratedAt.Weekday(), report.GeneratedAt.Hour())
	for _, insight := range report.TimeInsights {
		fmt.Printf("- %s\n", insight)
	}

	fmt.Println("\n## 🎯 Immediate Actions:")
	for _, action := range report.Actions {
		fmt.Println(action)
	}

	fmt.Println("\n## 🔍 System Health:")
	for _, note := range report.HealthNotes {
		fmt.Printf("- %s\n", note)
	}

	fmt.Println("\n## 📈 Quick Stats:")
	fmt.Printf("- Total active tasks: %d\n", report.ActiveTasks)
	fmt.Printf("- Total contacts in CRM: %d\n", report.TotalContacts)
	if report.ActiveTasks > 0 {
		fmt.Printf("- Total estimated time: %d minutes (%.1f hours)\n",
			report.TotalEstimate, float64(report.TotalEstimate)/60)
		if report.HighPriorityEstimate > 0 {
			fmt.Printf("- P0/P1 time commitment: %d minutes (%.1f hours)\n",
				report.HighPriorityEstimate, float64(report.HighPriorityEstimate)/60)
		}
	}

	if report.BacklogItems > 0 {
		fmt.Printf("\n⚠️ BACKLOG.md has %d items to process!\n", report.BacklogItems)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
