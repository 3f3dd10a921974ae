package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ecrawford/sift/pkg/models"
)

// fakeTriageStore implements TriageTaskStore in memory.
type fakeTriageStore struct {
	tasks   []models.Task
	files   map[string]string
	listErr error
}

func newFakeTriageStore(tasks ...models.Task) *fakeTriageStore {
	files := make(map[string]string)
	for _, t := range tasks {
		files[t.Filename] = ""
	}
	return &fakeTriageStore{tasks: tasks, files: files}
}

func (s *fakeTriageStore) List() ([]models.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *fakeTriageStore) Create(filename string, meta models.TaskMeta, body string) error {
	if _, exists := s.files[filename]; exists {
		return fmt.Errorf("creating task %s: task already exists", filename)
	}
	s.files[filename] = body
	s.tasks = append(s.tasks, models.Task{TaskMeta: meta, Filename: filename})
	return nil
}

// recordingEventLog captures emitted events for assertions.
type recordingEventLog struct {
	events []recordedEvent
}

type recordedEvent struct {
	eventType string
	data      map[string]any
}

func (l *recordingEventLog) LogEvent(eventType string, data map[string]any) error {
	l.events = append(l.events, recordedEvent{eventType: eventType, data: data})
	return nil
}

func (l *recordingEventLog) byType(eventType string) []recordedEvent {
	var out []recordedEvent
	for _, e := range l.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func existingTask(title, filename string) models.Task {
	return models.Task{
		TaskMeta: models.TaskMeta{
			Title:    title,
			Category: models.CategoryOther,
			Priority: models.P2,
			Status:   models.StatusNotStarted,
		},
		Filename: filename,
	}
}

func TestProcessClassifiesNewTask(t *testing.T) {
	pipeline := NewTriagePipeline(newFakeTriageStore(), nil)

	result := pipeline.Process(
		[]string{"Migrate the billing database to the new schema before the Q3 release"},
		DefaultTriageOptions(),
	)

	if len(result.NewTasks) != 1 {
		t.Fatalf("expected 1 new task, got %d (dup=%d clarify=%d err=%d)",
			len(result.NewTasks), len(result.PotentialDuplicates),
			len(result.NeedsClarification), len(result.Errors))
	}
	outcome := result.NewTasks[0]
	if outcome.SuggestedCategory != models.CategoryTechnical {
		t.Errorf("SuggestedCategory = %q, want technical", outcome.SuggestedCategory)
	}
	if outcome.SuggestedPriority != models.P2 {
		t.Errorf("SuggestedPriority = %q, want P2", outcome.SuggestedPriority)
	}
	if !outcome.ReadyToCreate {
		t.Error("ReadyToCreate = false, want true")
	}
	if outcome.Created != "" {
		t.Errorf("Created = %q, want empty without auto-create", outcome.Created)
	}
	if result.Summary.TotalItems != 1 || result.Summary.NewTasks != 1 {
		t.Errorf("summary = %+v, want 1 total / 1 new", result.Summary)
	}
}

func TestProcessVagueItemNeedsClarification(t *testing.T) {
	pipeline := NewTriagePipeline(newFakeTriageStore(), nil)

	result := pipeline.Process([]string{"fix bug"}, DefaultTriageOptions())

	if len(result.NeedsClarification) != 1 {
		t.Fatalf("expected 1 clarification, got %d", len(result.NeedsClarification))
	}
	clarify := result.NeedsClarification[0]
	if clarify.Item != "fix bug" {
		t.Errorf("Item = %q, want %q", clarify.Item, "fix bug")
	}
	if len(clarify.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d: %v", len(clarify.Questions), clarify.Questions)
	}
	if clarify.Questions[0] != "Which specific bug or error? Can you provide more details or error messages?" {
		t.Errorf("unexpected first question: %q", clarify.Questions[0])
	}
	if len(clarify.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(clarify.Suggestions))
	}
	if len(result.NewTasks) != 0 {
		t.Errorf("vague item also classified as new task: %+v", result.NewTasks)
	}
}

func TestProcessExactDuplicateRecommendsMerge(t *testing.T) {
	store := newFakeTriageStore(existingTask("Update billing dashboard", "Update billing dashboard.md"))
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{"Update billing dashboard"}, DefaultTriageOptions())

	if len(result.PotentialDuplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(result.PotentialDuplicates))
	}
	dup := result.PotentialDuplicates[0]
	if dup.RecommendedAction != models.ActionMerge {
		t.Errorf("RecommendedAction = %q, want merge", dup.RecommendedAction)
	}
	if len(dup.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(dup.Matches))
	}
	if dup.Matches[0].Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", dup.Matches[0].Score)
	}
	if dup.Matches[0].Filename != "Update billing dashboard.md" {
		t.Errorf("match filename = %q", dup.Matches[0].Filename)
	}
}

func TestProcessNearDuplicateRecommendsMerge(t *testing.T) {
	store := newFakeTriageStore(existingTask("Write blog post about Go generics", "go-generics.md"))
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{"Write blog post about Rust generics"}, DefaultTriageOptions())

	if len(result.PotentialDuplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d (new=%d)", len(result.PotentialDuplicates), len(result.NewTasks))
	}
	dup := result.PotentialDuplicates[0]
	if dup.RecommendedAction != models.ActionMerge {
		t.Errorf("RecommendedAction = %q, want merge for score %v", dup.RecommendedAction, dup.Matches[0].Score)
	}
	if dup.Matches[0].Score != 0.89 {
		t.Errorf("Score = %v, want 0.89", dup.Matches[0].Score)
	}
}

func TestProcessModerateOverlapRecommendsReview(t *testing.T) {
	store := newFakeTriageStore(existingTask("Schedule dentist appointment", "Schedule dentist appointment.md"))
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{"Schedule doctor appointment"}, DefaultTriageOptions())

	if len(result.PotentialDuplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d (new=%d)", len(result.PotentialDuplicates), len(result.NewTasks))
	}
	dup := result.PotentialDuplicates[0]
	if dup.RecommendedAction != models.ActionReview {
		t.Errorf("RecommendedAction = %q, want review for score %v", dup.RecommendedAction, dup.Matches[0].Score)
	}
	if dup.Matches[0].Score != 0.74 {
		t.Errorf("Score = %v, want 0.74", dup.Matches[0].Score)
	}
}

// A combined score that rounds to exactly the merge threshold must stay a
// review: merge requires strictly greater.
func TestProcessScoreAtMergeThresholdStaysReview(t *testing.T) {
	store := newFakeTriageStore(existingTask("Deploy the staging environment", "Deploy the staging environment.md"))
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{"Deploy staging environment config"}, DefaultTriageOptions())

	if len(result.PotentialDuplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(result.PotentialDuplicates))
	}
	dup := result.PotentialDuplicates[0]
	if dup.Matches[0].Score != 0.80 {
		t.Fatalf("Score = %v, want exactly 0.80", dup.Matches[0].Score)
	}
	if dup.RecommendedAction != models.ActionReview {
		t.Errorf("RecommendedAction = %q, want review at the threshold", dup.RecommendedAction)
	}
}

func TestProcessAutoCreateWritesTaskFiles(t *testing.T) {
	store := newFakeTriageStore()
	evt := &recordingEventLog{}
	pipeline := NewTriagePipeline(store, evt)

	opts := DefaultTriageOptions()
	opts.AutoCreate = true

	result := pipeline.Process([]string{"Write onboarding guide for new contractors"}, opts)

	want := "Write onboarding guide for new contractors.md"
	if len(result.AutoCreated) != 1 || result.AutoCreated[0] != want {
		t.Fatalf("AutoCreated = %v, want [%s]", result.AutoCreated, want)
	}
	if result.NewTasks[0].Created != want {
		t.Errorf("NewTasks[0].Created = %q, want %q", result.NewTasks[0].Created, want)
	}

	body, ok := store.files[want]
	if !ok {
		t.Fatalf("store has no file %q", want)
	}
	if !strings.Contains(body, "# Write onboarding guide for new contractors") {
		t.Errorf("body missing title heading:\n%s", body)
	}
	if !strings.Contains(body, "## Overview") || !strings.Contains(body, "- Category: writing") {
		t.Errorf("body missing generated sections:\n%s", body)
	}

	created := evt.byType("task.created")
	if len(created) != 1 {
		t.Fatalf("expected 1 task.created event, got %d", len(created))
	}
	if created[0].data["source"] != "triage" {
		t.Errorf("event source = %v, want triage", created[0].data["source"])
	}
	if len(evt.byType("triage.processed")) != 1 {
		t.Error("missing triage.processed event")
	}
}

// Re-triaging an item after auto-creating it must flag it as a duplicate
// instead of creating a second file.
func TestProcessAutoCreateThenReprocessFindsDuplicate(t *testing.T) {
	store := newFakeTriageStore()
	pipeline := NewTriagePipeline(store, nil)

	opts := DefaultTriageOptions()
	opts.AutoCreate = true

	first := pipeline.Process([]string{"Order replacement office chairs"}, opts)
	if len(first.AutoCreated) != 1 {
		t.Fatalf("first run AutoCreated = %v", first.AutoCreated)
	}

	second := pipeline.Process([]string{"Order replacement office chairs"}, opts)
	if len(second.PotentialDuplicates) != 1 {
		t.Fatalf("second run: expected 1 duplicate, got %d (new=%d)",
			len(second.PotentialDuplicates), len(second.NewTasks))
	}
	if second.PotentialDuplicates[0].RecommendedAction != models.ActionMerge {
		t.Errorf("RecommendedAction = %q, want merge", second.PotentialDuplicates[0].RecommendedAction)
	}
	if len(store.files) != 1 {
		t.Errorf("store has %d files, want 1", len(store.files))
	}
}

// Two items that sanitize to the same filename: the first wins, the second
// records a persistence error and leaves the first file untouched.
func TestProcessFilenameCollisionRecordsError(t *testing.T) {
	store := newFakeTriageStore()
	pipeline := NewTriagePipeline(store, nil)

	opts := DefaultTriageOptions()
	opts.AutoCreate = true

	result := pipeline.Process([]string{
		"Ship v2 launch email!",
		"Ship v2 launch email?",
	}, opts)

	want := "Ship v2 launch email.md"
	if len(result.AutoCreated) != 1 || result.AutoCreated[0] != want {
		t.Fatalf("AutoCreated = %v, want [%s]", result.AutoCreated, want)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(result.Errors))
	}
	errEntry := result.Errors[0]
	if errEntry.Item != "Ship v2 launch email?" {
		t.Errorf("error Item = %q", errEntry.Item)
	}
	if errEntry.Filename != want {
		t.Errorf("error Filename = %q, want %q", errEntry.Filename, want)
	}
	if !strings.Contains(errEntry.Reason, "already exists") {
		t.Errorf("error Reason = %q, want already-exists", errEntry.Reason)
	}

	firstBody := store.files[want]
	if !strings.Contains(firstBody, "# Ship v2 launch email!") {
		t.Errorf("first file body was replaced:\n%s", firstBody)
	}
	// Both items still appear as new-task outcomes, only one created.
	if len(result.NewTasks) != 2 {
		t.Errorf("NewTasks = %d, want 2", len(result.NewTasks))
	}
	if result.NewTasks[1].Created != "" {
		t.Errorf("second outcome Created = %q, want empty", result.NewTasks[1].Created)
	}
}

func TestProcessEmptyItemRecordsError(t *testing.T) {
	pipeline := NewTriagePipeline(newFakeTriageStore(), nil)

	result := pipeline.Process([]string{"", "   ", "Draft sponsorship proposal for the meetup"}, DefaultTriageOptions())

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 error entries, got %d", len(result.Errors))
	}
	for _, e := range result.Errors {
		if e.Reason != "empty backlog item" {
			t.Errorf("Reason = %q, want %q", e.Reason, "empty backlog item")
		}
	}
	if len(result.NewTasks) != 1 {
		t.Errorf("expected the non-empty item to survive, got %d new tasks", len(result.NewTasks))
	}
	if result.Summary.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3 including malformed items", result.Summary.TotalItems)
	}
}

// A failing task listing degrades to an empty snapshot with a warning
// instead of aborting the batch.
func TestProcessStoreListFailureDegrades(t *testing.T) {
	store := newFakeTriageStore(existingTask("Update billing dashboard", "Update billing dashboard.md"))
	store.listErr = fmt.Errorf("disk on fire")
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{"Update billing dashboard"}, DefaultTriageOptions())

	if len(result.Summary.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Summary.Warnings)
	}
	if !strings.Contains(result.Summary.Warnings[0], "disk on fire") {
		t.Errorf("warning = %q, want the underlying error", result.Summary.Warnings[0])
	}
	// Without the snapshot the item cannot match anything.
	if len(result.PotentialDuplicates) != 0 {
		t.Errorf("found duplicates against a failed listing: %+v", result.PotentialDuplicates)
	}
	if len(result.NewTasks) != 1 {
		t.Errorf("expected item to triage as new, got %d", len(result.NewTasks))
	}
}

func TestProcessSummaryRecommendations(t *testing.T) {
	store := newFakeTriageStore(existingTask("Update billing dashboard", "Update billing dashboard.md"))
	pipeline := NewTriagePipeline(store, nil)

	result := pipeline.Process([]string{
		"Update billing dashboard",
		"fix bug",
		"Draft sponsorship proposal for the meetup",
	}, DefaultTriageOptions())

	s := result.Summary
	if s.TotalItems != 3 || s.DuplicatesFound != 1 || s.NeedsClarification != 1 || s.NewTasks != 1 {
		t.Fatalf("summary counts = %+v", s)
	}
	if len(s.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %v", s.Recommendations)
	}
	wants := []string{
		"Review 1 potential duplicates before creating tasks",
		"Clarify 1 ambiguous items for better task definition",
		"Ready to create 1 new tasks - use auto_create=true or create manually",
	}
	for i, want := range wants {
		if s.Recommendations[i] != want {
			t.Errorf("recommendation[%d] = %q, want %q", i, s.Recommendations[i], want)
		}
	}
}

func TestProcessAutoCreateSkipsCreateRecommendation(t *testing.T) {
	store := newFakeTriageStore()
	pipeline := NewTriagePipeline(store, nil)

	opts := DefaultTriageOptions()
	opts.AutoCreate = true

	result := pipeline.Process([]string{"Draft sponsorship proposal for the meetup"}, opts)

	for _, r := range result.Summary.Recommendations {
		if strings.Contains(r, "Ready to create") {
			t.Errorf("auto-create run still recommends manual creation: %q", r)
		}
	}
	if result.Summary.AutoCreated != 1 {
		t.Errorf("AutoCreated = %d, want 1", result.Summary.AutoCreated)
	}
}

func TestProcessEmitsProcessedEvent(t *testing.T) {
	evt := &recordingEventLog{}
	pipeline := NewTriagePipeline(newFakeTriageStore(), evt)

	pipeline.Process([]string{"fix bug"}, DefaultTriageOptions())

	processed := evt.byType("triage.processed")
	if len(processed) != 1 {
		t.Fatalf("expected 1 triage.processed event, got %d", len(processed))
	}
	data := processed[0].data
	if data["total_items"] != 1 || data["needs_clarification"] != 1 {
		t.Errorf("event data = %v", data)
	}
}

func TestDefaultTriageOptions(t *testing.T) {
	opts := DefaultTriageOptions()

	if opts.AutoCreate {
		t.Error("AutoCreate = true, want review-only default")
	}
	if opts.Priority != models.P2 {
		t.Errorf("Priority = %q, want P2", opts.Priority)
	}
	if opts.EstimatedTime != 60 {
		t.Errorf("EstimatedTime = %d, want 60", opts.EstimatedTime)
	}
	if opts.Settings.SimilarityThreshold != 0.6 || opts.Settings.MergeThreshold != 0.8 {
		t.Errorf("Settings = %+v", opts.Settings)
	}
}
