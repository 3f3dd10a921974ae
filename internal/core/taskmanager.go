package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecrawford/sift/pkg/models"
)

// TaskDocStore is the subset of storage.TaskStore that TaskManager needs.
// Defining it here keeps core independent of the storage package.
type TaskDocStore interface {
	List() ([]models.Task, error)
	Get(filename string) (*models.Task, error)
	Create(filename string, meta models.TaskMeta, body string) error
	UpdateStatus(filename string, status models.TaskStatus) error
	Delete(filename string) error
}

// TaskFilter selects tasks by category, priority, and status. All specified
// fields use AND logic; within a field, values use OR logic.
type TaskFilter struct {
	Categories []models.Category
	Priorities []models.Priority
	Statuses   []models.TaskStatus
	// IncludeDone keeps completed tasks in the result when no explicit
	// status filter is given.
	IncludeDone bool
}

// CreateTaskOptions carries the optional fields of a new task.
type CreateTaskOptions struct {
	Category      models.Category
	Priority      models.Priority
	EstimatedTime int
	Content       string
}

// TaskManager defines the interface for task lifecycle operations.
type TaskManager interface {
	ListTasks(filter TaskFilter) ([]models.Task, error)
	GetTask(filename string) (*models.Task, error)
	CreateTask(title string, opts CreateTaskOptions) (string, error)
	UpdateStatus(filename string, status models.TaskStatus) error
	StartTask(filename string) error
	CompleteTask(filename string) error
	Prune(daysOld int) ([]string, error)
	Summary() (*TaskSummary, error)
	CheckLimits(limits models.LimitSettings) (*PriorityLimitCheck, error)
}

// taskManager implements TaskManager on top of a task document store.
type taskManager struct {
	store TaskDocStore
	evt   EventLogger
}

// NewTaskManager creates a TaskManager backed by the given store. The event
// logger may be nil.
func NewTaskManager(store TaskDocStore, evt EventLogger) TaskManager {
	return &taskManager{store: store, evt: evt}
}

// ListTasks returns tasks matching the filter, hiding completed tasks unless
// a status filter names them or IncludeDone is set.
func (tm *taskManager) ListTasks(filter TaskFilter) ([]models.Task, error) {
	tasks, err := tm.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	if len(filter.Statuses) == 0 && !filter.IncludeDone {
		active := tasks[:0]
		for _, t := range tasks {
			if t.Status != models.StatusDone {
				active = append(active, t)
			}
		}
		tasks = active
	}

	var result []models.Task
	for _, t := range tasks {
		if matchesTaskFilter(t, filter) {
			result = append(result, t)
		}
	}
	return result, nil
}

func matchesTaskFilter(t models.Task, filter TaskFilter) bool {
	if len(filter.Categories) > 0 && !containsCategory(filter.Categories, t.Category) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
		return false
	}
	return true
}

func containsCategory(haystack []models.Category, needle models.Category) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []models.Priority, needle models.Priority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}

func containsStatus(haystack []models.TaskStatus, needle models.TaskStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// ParseTaskFilter builds a TaskFilter from the comma-separated category,
// priority, and status lists that arrive from flags and tool arguments.
// Status values accept single-letter aliases; unknown categories are kept
// as-is and simply match nothing.
func ParseTaskFilter(categories, priorities, statuses string, includeDone bool) (TaskFilter, error) {
	filter := TaskFilter{IncludeDone: includeDone}
	for _, c := range splitCommaList(categories) {
		filter.Categories = append(filter.Categories, models.Category(c))
	}
	for _, p := range splitCommaList(priorities) {
		priority, err := models.ParsePriority(p)
		if err != nil {
			return TaskFilter{}, err
		}
		filter.Priorities = append(filter.Priorities, priority)
	}
	for _, s := range splitCommaList(statuses) {
		status, err := models.ParseStatus(s)
		if err != nil {
			return TaskFilter{}, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (tm *taskManager) GetTask(filename string) (*models.Task, error) {
	return tm.store.Get(EnsureMarkdownExt(filename))
}

// CreateTask writes a new task document and returns its filename. Path
// separators in the title are replaced so the file stays inside the Tasks
// directory.
func (tm *taskManager) CreateTask(title string, opts CreateTaskOptions) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("creating task: title must not be empty")
	}

	category := opts.Category
	if category == "" {
		category = models.CategoryOther
	}
	priority := opts.Priority
	if priority == "" {
		priority = models.P2
	}
	estimate := opts.EstimatedTime
	if estimate <= 0 {
		estimate = 30
	}

	filename := TaskFilename(title)
	meta := models.TaskMeta{
		Title:         title,
		Category:      category,
		Priority:      priority,
		Status:        models.StatusNotStarted,
		EstimatedTime: estimate,
	}
	body := fmt.Sprintf("\n\n# %s\n\n%s", title, opts.Content)

	if err := tm.store.Create(filename, meta, body); err != nil {
		return "", err
	}

	tm.logEvent("task.created", map[string]any{
		"filename": filename,
		"title":    title,
		"category": string(category),
		"priority": string(priority),
	})
	return filename, nil
}

// UpdateStatus sets the status of a task. The filename may be given without
// its .md extension.
func (tm *taskManager) UpdateStatus(filename string, status models.TaskStatus) error {
	filename = EnsureMarkdownExt(filename)
	if err := tm.store.UpdateStatus(filename, status); err != nil {
		return err
	}
	tm.logEvent("task.status_changed", map[string]any{
		"filename": filename,
		"status":   string(status),
	})
	return nil
}

func (tm *taskManager) StartTask(filename string) error {
	return tm.UpdateStatus(filename, models.StatusStarted)
}

func (tm *taskManager) CompleteTask(filename string) error {
	return tm.UpdateStatus(filename, models.StatusDone)
}

// Prune deletes completed tasks whose files were last modified more than
// daysOld days ago and returns the deleted filenames. Individual delete
// failures are skipped so one stubborn file does not abort the sweep.
func (tm *taskManager) Prune(daysOld int) ([]string, error) {
	tasks, err := tm.store.List()
	if err != nil {
		return nil, fmt.Errorf("pruning tasks: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)
	var deleted []string
	for _, t := range tasks {
		if t.Status != models.StatusDone || !t.ModTime.Before(cutoff) {
			continue
		}
		if err := tm.store.Delete(t.Filename); err != nil {
			continue
		}
		deleted = append(deleted, t.Filename)
		tm.logEvent("task.pruned", map[string]any{
			"filename": t.Filename,
			"title":    t.Title,
		})
	}
	return deleted, nil
}

func (tm *taskManager) Summary() (*TaskSummary, error) {
	tasks, err := tm.store.List()
	if err != nil {
		return nil, fmt.Errorf("building task summary: %w", err)
	}
	return BuildTaskSummary(tasks), nil
}

func (tm *taskManager) CheckLimits(limits models.LimitSettings) (*PriorityLimitCheck, error) {
	tasks, err := tm.store.List()
	if err != nil {
		return nil, fmt.Errorf("checking priority limits: %w", err)
	}
	return CheckPriorityLimits(tasks, limits), nil
}

func (tm *taskManager) logEvent(eventType string, data map[string]any) {
	if tm.evt == nil {
		return
	}
	_ = tm.evt.LogEvent(eventType, data)
}
