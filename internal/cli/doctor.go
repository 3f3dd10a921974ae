package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"double-check"},
	Short:   "Check system integrity and recent activity",
	Long: `Run five integrity checks over the workspace: task file formatting,
priority distribution, duplicate titles, CRM consistency, and recent
activity. Checks report findings; none of them modifies any file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil || ContactMgr == nil || TaskStore == nil {
			return fmt.Errorf("managers not initialized")
		}

		tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		malformed, err := TaskStore.Malformed()
		if err != nil {
			return fmt.Errorf("scanning task files: %w", err)
		}
		contacts, err := ContactMgr.ListContacts(core.ContactFilter{})
		if err != nil {
			return fmt.Errorf("listing contacts: %w", err)
		}

		report := core.BuildIntegrityReport(tasks, malformed, contacts, Cfg.Limits, time.Now())
		printIntegrityReport(report)
		return nil
	},
}

func printIntegrityReport(report *core.IntegrityReport) {
	fmt.Println("=== Double-Checking System Integrity ===")
	fmt.Println()

	fmt.Println("1. Checking task file integrity...")
	if len(report.MalformedTasks) > 0 {
		fmt.Printf("   ⚠️  Found %d tasks with issues:\n", len(report.MalformedTasks))
		for _, name := range report.MalformedTasks {
			fmt.Printf("      - %s\n", name)
		}
	} else {
		fmt.Println("   ✓ All task files properly formatted")
	}

	fmt.Println("\n2. Checking priority distribution...")
	if len(report.PriorityAlerts) > 0 {
		fmt.Println("   💡 High priority concentration:")
		for _, alert := range report.PriorityAlerts {
			fmt.Printf("      - %s\n", alert)
		}
	} else {
		fmt.Println("   ✓ Priority distribution is balanced")
	}

	fmt.Println("\n3. Checking for duplicate tasks...")
	if len(report.DuplicateTitles) > 0 {
		fmt.Printf("   ⚠️  Found %d duplicate task titles:\n", len(report.DuplicateTitles))
		for _, title := range report.DuplicateTitles {
			fmt.Printf("      - %s\n", title)
		}
	} else {
		fmt.Println("   ✓ No duplicate tasks found")
	}

	fmt.Println("\n4. Checking CRM consistency...")
	if len(report.MissingContacts) > 0 {
		fmt.Println("   ⚠️  Contacts mentioned in tasks but not in CRM:")
		for _, name := range report.MissingContacts {
			fmt.Printf("      - %s\n", name)
		}
	} else {
		fmt.Println("   ✓ CRM and tasks are consistent")
	}

	fmt.Println("\n5. Recent activity (last 7 days)...")
	if len(report.RecentTasks) > 0 {
		fmt.Printf("   Recently modified tasks (%d):\n", len(report.RecentTasks))
		recent := report.RecentTasks
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		for _, name := range recent {
			fmt.Printf("      - %s\n", name)
		}
		if len(report.RecentTasks) > 5 {
			fmt.Printf("      ... and %d more\n", len(report.RecentTasks)-5)
		}
	} else {
		fmt.Println("   No recent task activity")
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
