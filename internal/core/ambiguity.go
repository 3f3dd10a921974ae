package core

import (
	"regexp"
	"strings"
)

// vaguePatterns match backlog items that are too unspecific to act on.
// Matching is attempted in order against the lowercased, trimmed item.
var vaguePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(fix|update|improve|check|review|look at|work on)\s+(the|a|an)?\s*\w+$`),
	regexp.MustCompile(`^\w+\s+(stuff|thing|issue|problem)$`),
	regexp.MustCompile(`^(follow up|reach out|contact|email)$`),
	regexp.MustCompile(`^(investigate|research|explore)\s*\w{0,20}$`),
}

// clarificationRules map trigger words to the questions worth asking before a
// vague item becomes a task. Every matching rule contributes its questions.
var clarificationRules = []struct {
	triggers  []string
	questions []string
}{
	{
		triggers: []string{"fix", "bug", "error", "issue"},
		questions: []string{
			"Which specific bug or error? Can you provide more details or error messages?",
			"What component or feature is affected?",
		},
	},
	{
		triggers: []string{"update", "improve", "refactor"},
		questions: []string{
			"What specific aspects need updating/improvement?",
			"What's the success criteria for this task?",
		},
	},
	{
		triggers: []string{"email", "contact", "reach out", "follow up"},
		questions: []string{
			"Who should be contacted? (Check CRM for existing contacts)",
			"What's the purpose or goal of this outreach?",
		},
	},
	{
		triggers: []string{"research", "investigate", "explore"},
		questions: []string{
			"What specific questions need to be answered?",
			"What decisions will this research inform?",
		},
	},
}

// fallbackQuestions apply when no clarification rule matches.
var fallbackQuestions = []string{
	"Can you provide more specific details about what needs to be done?",
	"What's the expected outcome or deliverable?",
}

// IsAmbiguous reports whether a backlog item is too vague to become a task
// directly. Items of two words or fewer are always ambiguous, as are items
// matching one of the vague phrasing patterns.
func IsAmbiguous(item string) bool {
	normalized := strings.TrimSpace(strings.ToLower(item))
	if len(strings.Fields(normalized)) <= 2 {
		return true
	}
	for _, p := range vaguePatterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}

// ClarificationQuestions returns the questions to ask about an ambiguous item.
// Each kind of work the item hints at (technical, scope, outreach, research)
// contributes its own questions; unrecognizable items get the generic pair.
func ClarificationQuestions(item string) []string {
	lower := strings.ToLower(item)
	var questions []string
	for _, rule := range clarificationRules {
		for _, t := range rule.triggers {
			if strings.Contains(lower, t) {
				questions = append(questions, rule.questions...)
				break
			}
		}
	}
	if len(questions) == 0 {
		questions = append(questions, fallbackQuestions...)
	}
	return questions
}
