package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a sift workspace",
	Long: `Initialize a new or existing directory with the sift workspace
structure: Tasks/ and CRM/ directories, an empty BACKLOG.md, a GOALS.md
starter, and a config.yaml holding the default settings.

Safe to run on existing workspaces -- files and directories that already
exist are skipped and not overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectInit == nil {
			return fmt.Errorf("project initializer not initialized")
		}

		basePath := "."
		if len(args) > 0 {
			basePath = args[0]
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		result, err := ProjectInit.Init(core.InitConfig{BasePath: absPath})
		if err != nil {
			return fmt.Errorf("initializing workspace: %w", err)
		}

		if len(result.Created) > 0 {
			fmt.Println("Created:")
			for _, p := range result.Created {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}
		if len(result.Skipped) > 0 {
			fmt.Println("Skipped (already exist):")
			for _, p := range result.Skipped {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}

		fmt.Printf("\nWorkspace initialized at %s\n", absPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
