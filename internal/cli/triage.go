package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var (
	triageFromBacklog bool
	triageAutoCreate  bool
	triageThreshold   float64
)

var triageCmd = &cobra.Command{
	Use:   "triage [item...]",
	Short: "Sort backlog items into new tasks, duplicates, and questions",
	Long: `Run the triage engine over free-form capture items.

Each item is checked against existing tasks for likely duplicates, then for
vagueness; clear items are classified into a category and, with
--auto-create, written as task files. With --from-backlog the items come
from BACKLOG.md, and --auto-create additionally clears the backlog once
every item processed cleanly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Triage == nil {
			return fmt.Errorf("triage pipeline not initialized")
		}

		items := args
		if triageFromBacklog {
			if BacklogMgr == nil {
				return fmt.Errorf("backlog manager not initialized")
			}
			content, err := BacklogMgr.Read()
			if err != nil {
				return fmt.Errorf("reading backlog: %w", err)
			}
			if content.IsClear() {
				fmt.Println("Backlog is already clear.")
				return nil
			}
			for _, item := range content.Items {
				items = append(items, item.Text)
			}
			if len(items) == 0 {
				fmt.Println("No backlog items to process.")
				return nil
			}
		}
		if len(items) == 0 {
			return fmt.Errorf("no items to process: pass items as arguments or use --from-backlog")
		}

		opts := core.TriageOptions{
			AutoCreate:    triageAutoCreate,
			Settings:      Cfg.Triage,
			Priority:      Cfg.DefaultPriority,
			EstimatedTime: Cfg.TriageEstimatedTime,
		}
		if triageThreshold > 0 {
			opts.Settings.SimilarityThreshold = triageThreshold
		}

		result := Triage.Process(items, opts)
		printTriageResult(result)

		if triageFromBacklog && triageAutoCreate {
			if len(result.Errors) > 0 {
				fmt.Println("\nBacklog kept: some items failed to process.")
				return nil
			}
			if err := BacklogMgr.Clear(); err != nil {
				return fmt.Errorf("clearing backlog: %w", err)
			}
			fmt.Println("\nBacklog cleared.")
		}

		return nil
	},
}

func printTriageResult(result *models.TriageBatchResult) {
	if len(result.NewTasks) > 0 {
		fmt.Printf("\n=== New Tasks (%d) ===\n", len(result.NewTasks))
		for _, n := range result.NewTasks {
			marker := "○"
			if n.Created != "" {
				marker = "✓"
			}
			fmt.Printf("%s %s [%s/%s]\n", marker, n.Item, n.SuggestedCategory, n.SuggestedPriority)
			if n.Created != "" {
				fmt.Printf("  created: %s\n", n.Created)
			}
		}
	}

	if len(result.PotentialDuplicates) > 0 {
		fmt.Printf("\n=== Potential Duplicates (%d) ===\n", len(result.PotentialDuplicates))
		for _, d := range result.PotentialDuplicates {
			fmt.Printf("• %s (recommend: %s)\n", d.Item, d.RecommendedAction)
			for _, m := range d.Matches {
				fmt.Printf("  ~ %s (score %.2f)\n", m.Title, m.Score)
			}
		}
	}

	if len(result.NeedsClarification) > 0 {
		fmt.Printf("\n=== Needs Clarification (%d) ===\n", len(result.NeedsClarification))
		for _, c := range result.NeedsClarification {
			fmt.Printf("• %s\n", c.Item)
			for _, q := range c.Questions {
				fmt.Printf("  ? %s\n", q)
			}
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n=== Errors (%d) ===\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("• %s: %s\n", e.Item, e.Reason)
		}
	}

	s := result.Summary
	fmt.Println("\n=== Summary ===")
	fmt.Printf("Processed %d item(s): %d new, %d duplicates, %d need clarification, %d auto-created\n",
		s.TotalItems, s.NewTasks, s.DuplicatesFound, s.NeedsClarification, s.AutoCreated)
	for _, r := range s.Recommendations {
		fmt.Printf("💡 %s\n", r)
	}
	for _, w := range s.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
}

func init() {
	triageCmd.Flags().BoolVar(&triageFromBacklog, "from-backlog", false, "Read items from BACKLOG.md")
	triageCmd.Flags().BoolVar(&triageAutoCreate, "auto-create", false, "Create task files for items classified as new")
	triageCmd.Flags().Float64Var(&triageThreshold, "threshold", 0, "Similarity threshold override between 0 and 1")
	rootCmd.AddCommand(triageCmd)
}
