package models

// BacklogItem is one entry of the backlog file awaiting triage.
type BacklogItem struct {
	Text     string   `json:"text"`
	Subitems []string `json:"subitems,omitempty"`
}

// SimilarityMatch is a read-only projection of an existing task together
// with its combined similarity score against a triaged item. Scores are in
// [0, 1], rounded to two decimal places.
type SimilarityMatch struct {
	Title    string     `json:"title"`
	Filename string     `json:"filename"`
	Category Category   `json:"category"`
	Status   TaskStatus `json:"status"`
	Score    float64    `json:"similarity_score"`
}

// RecommendedAction says what to do about a potential duplicate.
type RecommendedAction string

const (
	ActionMerge  RecommendedAction = "merge"
	ActionReview RecommendedAction = "review"
)

// DuplicateOutcome reports an item that matched one or more existing tasks.
// Matches holds at most three entries, ordered by descending score.
type DuplicateOutcome struct {
	Item              string            `json:"item"`
	Matches           []SimilarityMatch `json:"similar_tasks"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
}

// ClarificationOutcome reports an item too vague to act on, with questions
// to resolve it.
type ClarificationOutcome struct {
	Item        string   `json:"item"`
	Questions   []string `json:"questions"`
	Suggestions []string `json:"suggestions"`
}

// NewTaskOutcome reports a clear, classifiable item. Created names the task
// file when auto-creation was requested and succeeded.
type NewTaskOutcome struct {
	Item              string   `json:"item"`
	SuggestedCategory Category `json:"suggested_category"`
	SuggestedPriority Priority `json:"suggested_priority"`
	ReadyToCreate     bool     `json:"ready_to_create"`
	Created           string   `json:"created,omitempty"`
}

// TriageError records a per-item failure (malformed input, persistence
// failure) without aborting the batch.
type TriageError struct {
	Item     string `json:"item"`
	Filename string `json:"filename,omitempty"`
	Reason   string `json:"reason"`
}

// TriageSummary carries batch counts and advisory recommendations.
type TriageSummary struct {
	TotalItems         int      `json:"total_items"`
	NewTasks           int      `json:"new_tasks"`
	DuplicatesFound    int      `json:"duplicates_found"`
	NeedsClarification int      `json:"needs_clarification"`
	AutoCreated        int      `json:"auto_created"`
	Recommendations    []string `json:"recommendations"`
	Warnings           []string `json:"warnings,omitempty"`
}

// TriageBatchResult is the full outcome of one triage run. Within each
// outcome list, entries appear in the order their items were submitted.
type TriageBatchResult struct {
	NewTasks            []NewTaskOutcome       `json:"new_tasks"`
	PotentialDuplicates []DuplicateOutcome     `json:"potential_duplicates"`
	NeedsClarification  []ClarificationOutcome `json:"needs_clarification"`
	AutoCreated         []string               `json:"auto_created"`
	Errors              []TriageError          `json:"errors,omitempty"`
	Summary             TriageSummary          `json:"summary"`
}
