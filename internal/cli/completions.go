package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
)

// completeTaskFiles returns a completion function that lists task filenames,
// optionally including completed tasks.
func completeTaskFiles(includeDone bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if TaskMgr == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: includeDone})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var files []string
		for _, task := range tasks {
			if toComplete == "" || strings.HasPrefix(task.Filename, toComplete) {
				// Include priority and title as description for better UX.
				files = append(files, task.Filename+"\t"+string(task.Priority)+": "+task.Title)
			}
		}

		return files, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeContactNames lists contact names for commands that take one.
func completeContactNames(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ContactMgr == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	contacts, err := ContactMgr.ListContacts(core.ContactFilter{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, c := range contacts {
		if toComplete == "" || strings.HasPrefix(c.Name, toComplete) {
			desc := c.Company
			if desc == "" {
				desc = c.Location
			}
			names = append(names, c.Name+"\t"+desc)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeCategories returns a completion function for category values.
func completeCategories(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"outreach\tEmails, calls, follow-ups",
		"technical\tCode, debugging, infrastructure",
		"writing\tPosts, docs, articles",
		"research\tReading, investigation",
		"admin\tChores and paperwork",
		"social\tEvents and meetups",
		"other\tEverything else",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completePriorities returns a completion function for priority values.
func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"P0\tCritical",
		"P1\tHigh",
		"P2\tMedium",
		"P3\tLow",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeStatuses returns a completion function for task status values.
func completeStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"not_started\tNot yet picked up",
		"started\tActively being worked on",
		"blocked\tWaiting on something",
		"done\tCompleted",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeContactFields returns a completion function for contact field names.
func completeContactFields(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"email\tEmail address",
		"company\tCompany name",
		"location\tCity or region",
		"phone\tPhone number",
		"linkedin\tLinkedIn profile URL",
		"relationship_strength\tnew, weak, medium, or strong",
		"last_contact\tDate of last touch (YYYY-MM-DD)",
	}, cobra.ShellCompDirectiveNoFileComp
}
