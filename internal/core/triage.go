package core

import (
	"fmt"
	"strings"

	"github.com/ecrawford/sift/pkg/models"
)

// TriageTaskStore is the subset of the task store the triage pipeline needs.
// This interface is defined locally in core to avoid importing storage.
type TriageTaskStore interface {
	List() ([]models.Task, error)
	Create(filename string, meta models.TaskMeta, body string) error
}

// TriageOptions control a triage run.
type TriageOptions struct {
	// AutoCreate writes a task file for every item classified as new.
	AutoCreate bool
	// Settings tune duplicate detection.
	Settings models.TriageSettings
	// Priority assigned to created tasks.
	Priority models.Priority
	// EstimatedTime in minutes assigned to created tasks.
	EstimatedTime int
}

// DefaultTriageOptions returns triage options matching the stock
// configuration: review-only, P2 tasks estimated at an hour.
func DefaultTriageOptions() TriageOptions {
	cfg := DefaultGlobalConfig()
	return TriageOptions{
		AutoCreate:    false,
		Settings:      cfg.Triage,
		Priority:      models.P2,
		EstimatedTime: cfg.TriageEstimatedTime,
	}
}

// TriagePipeline classifies backlog items against the existing task set.
// Every item lands in exactly one bucket: potential duplicate, needs
// clarification, or new task.
type TriagePipeline interface {
	Process(items []string, opts TriageOptions) *models.TriageBatchResult
}

type triagePipeline struct {
	store TriageTaskStore
	evt   EventLogger
}

// NewTriagePipeline creates a TriagePipeline backed by the given task store.
// The event logger may be nil.
func NewTriagePipeline(store TriageTaskStore, evt EventLogger) TriagePipeline {
	return &triagePipeline{store: store, evt: evt}
}

// Process runs every item through duplicate detection, then ambiguity
// classification, and files the survivors as new tasks. The task snapshot is
// loaded once up front; if loading fails the run degrades to an empty
// snapshot and records a warning instead of failing the batch. Item order is
// preserved within each bucket.
func (p *triagePipeline) Process(items []string, opts TriageOptions) *models.TriageBatchResult {
	result := &models.TriageBatchResult{
		NewTasks:            []models.NewTaskOutcome{},
		PotentialDuplicates: []models.DuplicateOutcome{},
		NeedsClarification:  []models.ClarificationOutcome{},
		AutoCreated:         []string{},
		Errors:              []models.TriageError{},
	}

	existing, err := p.store.List()
	if err != nil {
		existing = nil
		result.Summary.Warnings = append(result.Summary.Warnings,
			fmt.Sprintf("listing existing tasks: %v; duplicate detection ran against an empty snapshot", err))
	}

	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			result.Errors = append(result.Errors, models.TriageError{
				Item:   item,
				Reason: "empty backlog item",
			})
			continue
		}

		if similar := FindSimilar(item, existing, opts.Settings); len(similar) > 0 {
			action := models.ActionReview
			if similar[0].Score > opts.Settings.MergeThreshold {
				action = models.ActionMerge
			}
			result.PotentialDuplicates = append(result.PotentialDuplicates, models.DuplicateOutcome{
				Item:              item,
				Matches:           similar,
				RecommendedAction: action,
			})
			continue
		}

		if IsAmbiguous(item) {
			result.NeedsClarification = append(result.NeedsClarification, models.ClarificationOutcome{
				Item:      item,
				Questions: ClarificationQuestions(item),
				Suggestions: []string{
					"Add more specific details",
					"Include success criteria",
					"Specify scope or boundaries",
				},
			})
			continue
		}

		outcome := models.NewTaskOutcome{
			Item:              item,
			SuggestedCategory: GuessCategory(item),
			SuggestedPriority: opts.Priority,
			ReadyToCreate:     true,
		}
		if opts.AutoCreate {
			filename, err := p.createTask(item, outcome.SuggestedCategory, opts)
			if err != nil {
				result.Errors = append(result.Errors, models.TriageError{
					Item:     item,
					Filename: filename,
					Reason:   err.Error(),
				})
			} else {
				outcome.Created = filename
				result.AutoCreated = append(result.AutoCreated, filename)
				p.logEvent("task.created", map[string]any{
					"filename": filename,
					"title":    item,
					"category": string(outcome.SuggestedCategory),
					"source":   "triage",
				})
			}
		}
		result.NewTasks = append(result.NewTasks, outcome)
	}

	p.summarize(result, len(items), opts.AutoCreate)
	p.logEvent("triage.processed", map[string]any{
		"total_items":         result.Summary.TotalItems,
		"new_tasks":           result.Summary.NewTasks,
		"duplicates_found":    result.Summary.DuplicatesFound,
		"needs_clarification": result.Summary.NeedsClarification,
		"auto_created":        result.Summary.AutoCreated,
	})
	return result
}

func (p *triagePipeline) createTask(item string, category models.Category, opts TriageOptions) (string, error) {
	filename := SafeTaskFilename(item)
	meta := models.TaskMeta{
		Title:         item,
		Category:      category,
		Priority:      opts.Priority,
		Status:        models.StatusNotStarted,
		EstimatedTime: opts.EstimatedTime,
	}
	body := fmt.Sprintf("\n\n# %s\n\n%s", item, GenerateTaskContent(item, category))
	if err := p.store.Create(filename, meta, body); err != nil {
		return filename, fmt.Errorf("creating task file: %w", err)
	}
	return filename, nil
}

func (p *triagePipeline) summarize(result *models.TriageBatchResult, total int, autoCreate bool) {
	s := &result.Summary
	s.TotalItems = total
	s.NewTasks = len(result.NewTasks)
	s.DuplicatesFound = len(result.PotentialDuplicates)
	s.NeedsClarification = len(result.NeedsClarification)
	s.AutoCreated = len(result.AutoCreated)

	if s.DuplicatesFound > 0 {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("Review %d potential duplicates before creating tasks", s.DuplicatesFound))
	}
	if s.NeedsClarification > 0 {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("Clarify %d ambiguous items for better task definition", s.NeedsClarification))
	}
	if s.NewTasks > 0 && !autoCreate {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("Ready to create %d new tasks - use auto_create=true or create manually", s.NewTasks))
	}
}

func (p *triagePipeline) logEvent(eventType string, data map[string]any) {
	if p.evt == nil {
		return
	}
	_ = p.evt.LogEvent(eventType, data)
}
