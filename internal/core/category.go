package core

import (
	"strings"

	"github.com/ecrawford/sift/pkg/models"
)

// categoryRules map indicator words to a category. Rules are checked in order
// and the first rule with any indicator present in the item wins; outreach
// outranks technical so "email the API team" files under outreach.
var categoryRules = []struct {
	indicators []string
	category   models.Category
}{
	{[]string{"email", "contact", "reach out", "follow up", "meeting", "call"}, models.CategoryOutreach},
	{[]string{"code", "api", "database", "deploy", "fix", "bug", "implement"}, models.CategoryTechnical},
	{[]string{"research", "study", "learn", "understand", "investigate"}, models.CategoryResearch},
	{[]string{"write", "draft", "document", "blog", "article", "proposal"}, models.CategoryWriting},
	{[]string{"expense", "invoice", "schedule", "calendar", "organize"}, models.CategoryAdmin},
	{[]string{"tweet", "post", "linkedin", "social", "twitter"}, models.CategorySocial},
}

// GuessCategory classifies a backlog item into a task category from the words
// it contains. Items matching no rule fall back to the other category.
func GuessCategory(item string) models.Category {
	lower := strings.ToLower(item)
	for _, rule := range categoryRules {
		for _, word := range rule.indicators {
			if strings.Contains(lower, word) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}
