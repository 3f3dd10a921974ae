package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "Manage contacts",
	Long:  "List, add, update, and search contacts stored as markdown files under CRM/.",
}

var (
	crmListLocation string
	crmListCompany  string
	crmListName     string
)

var crmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts grouped by location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ContactMgr == nil {
			return fmt.Errorf("contact manager not initialized")
		}

		filter := core.ParseContactFilter(crmListLocation, crmListCompany, crmListName)
		contacts, err := ContactMgr.ListContacts(filter)
		if err != nil {
			return fmt.Errorf("listing contacts: %w", err)
		}

		if len(contacts) == 0 {
			fmt.Println("No contacts found matching criteria.")
			return nil
		}

		byLocation := make(map[string][]models.Contact)
		var locations []string
		for _, c := range contacts {
			loc := orDefault(c.Location, "Unknown")
			if _, seen := byLocation[loc]; !seen {
				locations = append(locations, loc)
			}
			byLocation[loc] = append(byLocation[loc], c)
		}

		for _, loc := range locations {
			fmt.Printf("\n=== %s ===\n", loc)
			for _, c := range byLocation[loc] {
				fmt.Printf("• %s @ %s\n", orDefault(c.Name, "Unknown"), orDefault(c.Company, "No company"))
				fmt.Printf("  Email: %s | Last contact: %s | Relationship: %s\n",
					orDefault(c.Email, "No email"),
					orDefault(c.LastContact, "Never"),
					orDefault(c.RelationshipStrength, "unknown"))
			}
		}

		return nil
	},
}

var (
	crmAddEmail    string
	crmAddCompany  string
	crmAddLocation string
	crmAddPhone    string
	crmAddLinkedIn string
)

var crmAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ContactMgr == nil {
			return fmt.Errorf("contact manager not initialized")
		}

		meta := models.ContactMeta{
			Name:     args[0],
			Email:    crmAddEmail,
			Company:  crmAddCompany,
			Location: crmAddLocation,
			Phone:    crmAddPhone,
			LinkedIn: crmAddLinkedIn,
		}
		filename, err := ContactMgr.AddContact(meta)
		if err != nil {
			return fmt.Errorf("adding contact: %w", err)
		}

		fmt.Printf("Added contact: %s (%s)\n", args[0], filename)
		return nil
	},
}

var crmUpdateCmd = &cobra.Command{
	Use:   "update <name> <field> <value>",
	Short: "Update a contact field",
	Long: `Update one frontmatter field of a contact. Known fields are email,
company, location, phone, linkedin, relationship_strength, and last_contact;
any other field name is stored as a custom attribute.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ContactMgr == nil {
			return fmt.Errorf("contact manager not initialized")
		}

		if err := ContactMgr.UpdateField(args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("updating contact: %w", err)
		}

		fmt.Printf("Updated %s %s to '%s'\n", args[0], args[1], args[2])
		return nil
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return completeContactNames(cmd, args, toComplete)
		case 1:
			return completeContactFields(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
}

var crmSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search contacts by name, company, email, location, or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ContactMgr == nil {
			return fmt.Errorf("contact manager not initialized")
		}

		matches, err := ContactMgr.SearchContacts(args[0])
		if err != nil {
			return fmt.Errorf("searching contacts: %w", err)
		}

		if len(matches) == 0 {
			fmt.Printf("No contacts found matching '%s'\n", args[0])
			return nil
		}

		fmt.Printf("\n=== Search Results for '%s' ===\n", args[0])
		for _, c := range matches {
			fmt.Printf("• %s @ %s (%s)\n", orDefault(c.Name, "Unknown"), orDefault(c.Company, "No company"), c.Filename)
		}
		return nil
	},
}

var crmSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show CRM summary statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ContactMgr == nil {
			return fmt.Errorf("contact manager not initialized")
		}

		summary, err := ContactMgr.Summary()
		if err != nil {
			return fmt.Errorf("building CRM summary: %w", err)
		}

		if summary.TotalContacts == 0 {
			fmt.Println("No contacts found.")
			return nil
		}

		fmt.Println("=== CRM Summary ===")
		fmt.Printf("Total Contacts: %d\n", summary.TotalContacts)

		fmt.Println("\nBy Location:")
		for _, nc := range summary.ByLocation {
			fmt.Printf("  %s: %d\n", nc.Name, nc.Count)
		}

		fmt.Println("\nTop 10 Companies:")
		for _, nc := range summary.TopCompanies {
			fmt.Printf("  %s: %d\n", nc.Name, nc.Count)
		}

		fmt.Println("\nBy Relationship Strength:")
		for _, nc := range summary.ByRelationship {
			fmt.Printf("  %s: %d\n", nc.Name, nc.Count)
		}
		return nil
	},
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func init() {
	crmListCmd.Flags().StringVar(&crmListLocation, "location", "", "filter by location (comma-separated, substring match)")
	crmListCmd.Flags().StringVar(&crmListCompany, "company", "", "filter by company (comma-separated, substring match)")
	crmListCmd.Flags().StringVar(&crmListName, "name", "", "filter by name (substring match)")

	crmAddCmd.Flags().StringVar(&crmAddEmail, "email", "", "email address")
	crmAddCmd.Flags().StringVar(&crmAddCompany, "company", "", "company name")
	crmAddCmd.Flags().StringVar(&crmAddLocation, "location", "", "location")
	crmAddCmd.Flags().StringVar(&crmAddPhone, "phone", "", "phone number")
	crmAddCmd.Flags().StringVar(&crmAddLinkedIn, "linkedin", "", "LinkedIn profile URL")

	crmCmd.AddCommand(crmListCmd)
	crmCmd.AddCommand(crmAddCmd)
	crmCmd.AddCommand(crmUpdateCmd)
	crmCmd.AddCommand(crmSearchCmd)
	crmCmd.AddCommand(crmSummaryCmd)
	rootCmd.AddCommand(crmCmd)
}
