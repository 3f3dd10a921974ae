package core

import (
	"fmt"
	"strings"

	"github.com/ecrawford/sift/pkg/models"
)

// overviewRules pick an overview sentence from keywords in the item. Checked
// in order, first match wins.
var overviewRules = []struct {
	triggers []string
	format   string
}{
	{[]string{"proposal"}, "Create and submit a comprehensive proposal for %s. Research requirements, draft content, and prepare supporting materials."},
	{[]string{"review"}, "Conduct thorough review of %s. Provide feedback, suggestions, and actionable improvements."},
	{[]string{"follow up", "reach out"}, "Establish or continue communication regarding %s. Ensure clear next steps and maintain relationship momentum."},
	{[]string{"post", "write"}, "Create compelling content for %s. Focus on value delivery and audience engagement."},
	{[]string{"implement", "build"}, "Design and implement solution for %s. Ensure functionality, testing, and documentation."},
}

// categoryActions are the checklist items each category starts with, after the
// universal context-review step.
var categoryActions = map[models.Category][]string{
	models.CategoryOutreach: {
		"- [ ] Research contact's recent activity/interests",
		"- [ ] Draft personalized message",
		"- [ ] Schedule follow-up reminder",
	},
	models.CategoryWriting: {
		"- [ ] Create outline with key points",
		"- [ ] Write first draft",
		"- [ ] Review and edit for clarity",
		"- [ ] Prepare for publication/submission",
	},
	models.CategoryTechnical: {
		"- [ ] Define technical requirements",
		"- [ ] Set up development environment",
		"- [ ] Implement core functionality",
		"- [ ] Test and validate solution",
	},
	models.CategoryResearch: {
		"- [ ] Define research questions",
		"- [ ] Gather relevant sources",
		"- [ ] Analyze and synthesize findings",
		"- [ ] Document insights and recommendations",
	},
	models.CategorySocial: {
		"- [ ] Research trending topics/hashtags",
		"- [ ] Draft engaging content",
		"- [ ] Add relevant visuals/links",
		"- [ ] Schedule optimal posting time",
	},
}

// genericActions apply to categories without their own checklist.
var genericActions = []string{
	"- [ ] Define specific requirements",
	"- [ ] Create action plan",
	"- [ ] Execute plan",
	"- [ ] Verify completion",
}

// categorySections are extra scaffolding sections appended per category.
// Admin and other tasks get none.
var categorySections = map[models.Category]string{
	models.CategoryOutreach: `
## Draft Message
[Draft outreach message here based on context]

## Contact Details
- Check CRM for existing contact information
- LinkedIn profile: [to be added]
- Email: [to be added]
`,
	models.CategoryWriting: `
## Key Points
- [Main argument or thesis]
- [Supporting points]
- [Call to action]

## Target Audience
[Define who this is for]

## Resources
- [Related documents or references]
`,
	models.CategoryTechnical: `
## Technical Requirements
- [Specific technical details]
- [Dependencies or prerequisites]
- [Expected outcome]

## Implementation Notes
- [Technical approach]
- [Testing considerations]
`,
	models.CategoryResearch: `
## Research Questions
- [What are we trying to learn?]
- [Key hypotheses to test]

## Sources to Explore
- [Relevant resources]
- [People to consult]
`,
	models.CategorySocial: `
## Content Strategy
- Platform: [Twitter/LinkedIn/etc]
- Key message: [Core point]
- Engagement goal: [What response do we want?]

## Draft Post
[Initial draft of social content]
`,
}

// TaskOverview returns a one-paragraph overview for a task derived from a
// backlog item.
func TaskOverview(item string, category models.Category) string {
	lower := strings.ToLower(item)
	for _, rule := range overviewRules {
		for _, t := range rule.triggers {
			if strings.Contains(lower, t) {
				return fmt.Sprintf(rule.format, item)
			}
		}
	}
	return fmt.Sprintf("Complete %s with focus on quality and timeliness.", item)
}

// NextActions returns the starter checklist for a task, one markdown checkbox
// per line.
func NextActions(item string, category models.Category) string {
	actions := []string{"- [ ] Review related context and existing work"}
	if extra, ok := categoryActions[category]; ok {
		actions = append(actions, extra...)
	} else {
		actions = append(actions, genericActions...)
	}
	return strings.Join(actions, "\n")
}

// GenerateTaskContent builds the markdown body scaffold for a task created
// from a backlog item: overview, next actions, notes, and category-specific
// sections.
func GenerateTaskContent(item string, category models.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Overview\n%s\n\n", TaskOverview(item, category))
	fmt.Fprintf(&b, "## Next Actions\n%s\n\n", NextActions(item, category))
	fmt.Fprintf(&b, "## Notes & Details\n- Task created from backlog processing\n- Category: %s\n", category)
	if section, ok := categorySections[category]; ok {
		b.WriteString(section)
	}
	return b.String()
}
