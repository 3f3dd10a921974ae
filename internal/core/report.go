package core

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/ecrawford/sift/pkg/models"
)

// TimeEstimate is the workload of one priority band.
type TimeEstimate struct {
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

// TaskSummary aggregates task counts and time estimates. Priority and
// category counts cover active tasks only; status counts cover everything.
type TaskSummary struct {
	TotalTasks     int                              `json:"total_tasks"`
	ActiveTasks    int                              `json:"active_tasks"`
	ByPriority     map[models.Priority]int          `json:"by_priority"`
	ByCategory     map[models.Category]int          `json:"by_category"`
	ByStatus       map[models.TaskStatus]int        `json:"by_status"`
	TimeByPriority map[models.Priority]TimeEstimate `json:"time_by_priority"`
}

// PriorityLimitCheck reports whether active task counts stay under the
// advisory per-priority thresholds.
type PriorityLimitCheck struct {
	PriorityCounts map[models.Priority]int `json:"priority_counts"`
	Limits         map[models.Priority]int `json:"limits"`
	Alerts         []string                `json:"alerts"`
	Balanced       bool                    `json:"balanced"`
}

// SystemStatus is the compact machine-readable snapshot served over MCP.
type SystemStatus struct {
	TotalActiveTasks     int                       `json:"total_active_tasks"`
	TotalContacts        int                       `json:"total_contacts"`
	PriorityDistribution map[models.Priority]int   `json:"priority_distribution"`
	StatusDistribution   map[models.TaskStatus]int `json:"status_distribution"`
	CategoryDistribution map[models.Category]int   `json:"category_distribution"`
	BacklogItems         int                       `json:"backlog_items"`
	TimeInsights         []string                  `json:"time_insights"`
	Timestamp            string                    `json:"timestamp"`
}

// CategoryShare is one category's slice of the active workload.
type CategoryShare struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
	Percent  float64         `json:"percent"`
}

// StatusReport is the full actionable snapshot behind the status command.
type StatusReport struct {
	GeneratedAt          time.Time
	ActiveTasks          int
	TotalContacts        int
	PriorityCounts       map[models.Priority]int
	PriorityFlagged      map[models.Priority]bool
	HighPriorityCount    int
	StatusCounts         map[models.TaskStatus]int
	StartedTitles        []string
	Categories           []CategoryShare
	TimeInsights         []string
	Actions              []string
	HealthNotes          []string
	TotalEstimate        int
	HighPriorityEstimate int
	BacklogItems         int
}

// IntegrityReport is the result of the five doctor checks.
type IntegrityReport struct {
	MalformedTasks  []string
	PriorityAlerts  []string
	DuplicateTitles []string
	MissingContacts []string
	RecentTasks     []string
}

// Suggestion is one anticipated next step, with the command that acts on it.
type Suggestion struct {
	Type    string
	Items   []string
	Command string
}

// NameCount is a label with an occurrence count, ordered most common first.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CRMSummary aggregates the contact roster.
type CRMSummary struct {
	TotalContacts  int         `json:"total_contacts"`
	ByLocation     []NameCount `json:"by_location"`
	TopCompanies   []NameCount `json:"top_companies"`
	ByRelationship []NameCount `json:"by_relationship"`
}

// activeTasks filters out completed tasks.
func activeTasks(tasks []models.Task) []models.Task {
	var active []models.Task
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			active = append(active, t)
		}
	}
	return active
}

// estimateOr returns the task's estimate, or fallback when none is recorded.
func estimateOr(t models.Task, fallback int) int {
	if t.EstimatedTime <= 0 {
		return fallback
	}
	return t.EstimatedTime
}

// BuildTaskSummary aggregates counts and time estimates over the snapshot.
// A task without an estimate counts as thirty minutes.
func BuildTaskSummary(tasks []models.Task) *TaskSummary {
	active := activeTasks(tasks)

	summary := &TaskSummary{
		TotalTasks:     len(tasks),
		ActiveTasks:    len(active),
		ByPriority:     make(map[models.Priority]int),
		ByCategory:     make(map[models.Category]int),
		ByStatus:       make(map[models.TaskStatus]int),
		TimeByPriority: make(map[models.Priority]TimeEstimate),
	}

	for _, t := range active {
		summary.ByPriority[t.Priority]++
		summary.ByCategory[t.Category]++
	}
	for _, t := range tasks {
		summary.ByStatus[t.Status]++
	}

	for _, p := range models.Priorities {
		minutes := 0
		for _, t := range active {
			if t.Priority == p {
				minutes += estimateOr(t, 30)
			}
		}
		summary.TimeByPriority[p] = TimeEstimate{
			TotalMinutes: minutes,
			TotalHours:   math.Round(float64(minutes)/60*10) / 10,
		}
	}

	return summary
}

// CheckPriorityLimits compares active task counts against the configured
// thresholds. The thresholds are advisory; exceeding one produces an alert,
// not an error.
func CheckPriorityLimits(tasks []models.Task, limits models.LimitSettings) *PriorityLimitCheck {
	active := activeTasks(tasks)

	counts := make(map[models.Priority]int)
	for _, t := range active {
		counts[t.Priority]++
	}

	thresholds := map[models.Priority]int{
		models.P0: limits.P0,
		models.P1: limits.P1,
		models.P2: limits.P2,
	}

	var alerts []string
	for _, p := range []models.Priority{models.P0, models.P1, models.P2} {
		if counts[p] > thresholds[p] {
			alerts = append(alerts, fmt.Sprintf("%s has %d tasks (limit: %d)", p, counts[p], thresholds[p]))
		}
	}

	return &PriorityLimitCheck{
		PriorityCounts: counts,
		Limits:         thresholds,
		Alerts:         alerts,
		Balanced:       len(alerts) == 0,
	}
}

// BuildSystemStatus aggregates the distributions served by the MCP status
// tool. All distributions cover active tasks only.
func BuildSystemStatus(tasks []models.Task, contacts []models.Contact, backlogItems int, now time.Time) *SystemStatus {
	active := activeTasks(tasks)

	status := &SystemStatus{
		TotalActiveTasks:     len(active),
		TotalContacts:        len(contacts),
		PriorityDistribution: make(map[models.Priority]int),
		StatusDistribution:   make(map[models.TaskStatus]int),
		CategoryDistribution: make(map[models.Category]int),
		BacklogItems:         backlogItems,
		Timestamp:            now.Format(time.RFC3339),
	}

	for _, t := range active {
		status.PriorityDistribution[t.Priority]++
		status.StatusDistribution[t.Status]++
		status.CategoryDistribution[t.Category]++
	}

	hour := now.Hour()
	switch {
	case hour >= 9 && hour < 12:
		status.TimeInsights = append(status.TimeInsights, "Morning - ideal for outreach tasks")
	case hour >= 14 && hour < 17:
		status.TimeInsights = append(status.TimeInsights, "Afternoon - good for deep work")
	case hour >= 17:
		status.TimeInsights = append(status.TimeInsights, "End of day - quick admin tasks")
	}

	return status
}

// BuildStatusReport assembles the actionable status snapshot: distributions,
// time-of-day insights, immediate actions, and health notes.
func BuildStatusReport(tasks []models.Task, contacts []models.Contact, backlogItems int, limits models.LimitSettings, now time.Time) *StatusReport {
	active := activeTasks(tasks)

	report := &StatusReport{
		GeneratedAt:     now,
		ActiveTasks:     len(active),
		TotalContacts:   len(contacts),
		PriorityCounts:  make(map[models.Priority]int),
		PriorityFlagged: make(map[models.Priority]bool),
		StatusCounts:    make(map[models.TaskStatus]int),
		BacklogItems:    backlogItems,
	}

	for _, t := range active {
		report.PriorityCounts[t.Priority]++
		report.StatusCounts[t.Status]++
	}

	thresholds := map[models.Priority]int{
		models.P0: limits.P0,
		models.P1: limits.P1,
		models.P2: limits.P2,
	}
	for p, limit := range thresholds {
		if report.PriorityCounts[p] > limit {
			report.PriorityFlagged[p] = true
		}
	}
	report.HighPriorityCount = report.PriorityCounts[models.P0] + report.PriorityCounts[models.P1]

	for _, t := range active {
		if t.Status == models.StatusStarted && len(report.StartedTitles) < 3 {
			report.StartedTitles = append(report.StartedTitles, t.Title)
		}
	}

	report.Categories = categoryShares(active)
	report.TimeInsights = statusTimeInsights(active, now)
	report.Actions = immediateActions(active, limits, now)
	report.HealthNotes = healthNotes(tasks, active, contacts)

	for _, t := range active {
		report.TotalEstimate += estimateOr(t, 0)
		if t.Priority == models.P0 || t.Priority == models.P1 {
			report.HighPriorityEstimate += estimateOr(t, 0)
		}
	}

	return report
}

func categoryShares(active []models.Task) []CategoryShare {
	counts := make(map[models.Category]int)
	for _, t := range active {
		counts[t.Category]++
	}

	shares := make([]CategoryShare, 0, len(counts))
	for c, n := range counts {
		percent := 0.0
		if len(active) > 0 {
			percent = float64(n) / float64(len(active)) * 100
		}
		shares = append(shares, CategoryShare{Category: c, Count: n, Percent: percent})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

func statusTimeInsights(active []models.Task, now time.Time) []string {
	var insights []string
	hour := now.Hour()

	switch {
	case hour >= 9 && hour < 12:
		n := countWhere(active, models.CategoryOutreach, models.StatusNotStarted)
		if n > 0 {
			insights = append(insights, fmt.Sprintf("Morning is ideal for outreach - you have %d outreach tasks", n))
		}
	case hour >= 14 && hour < 17:
		n := 0
		for _, c := range []models.Category{models.CategoryTechnical, models.CategoryWriting, models.CategoryResearch} {
			n += countWhere(active, c, models.StatusNotStarted)
		}
		if n > 0 {
			insights = append(insights, fmt.Sprintf("Afternoon deep work time - %d technical/writing tasks available", n))
		}
	case hour >= 17:
		insights = append(insights, "Evening: Good time for planning tomorrow or quick admin tasks")
	}

	if now.Weekday() == time.Friday {
		insights = append(insights, "It's Friday! Consider doing a weekly review")
	}
	return insights
}

func countWhere(tasks []models.Task, category models.Category, status models.TaskStatus) int {
	n := 0
	for _, t := range tasks {
		if t.Category == category && t.Status == status {
			n++
		}
	}
	return n
}

func immediateActions(active []models.Task, limits models.LimitSettings, now time.Time) []string {
	var actions []string

	var highPriWaiting []models.Task
	for _, t := range active {
		if (t.Priority == models.P0 || t.Priority == models.P1) && t.Status == models.StatusNotStarted {
			highPriWaiting = append(highPriWaiting, t)
		}
	}
	if len(highPriWaiting) > 0 {
		actions = append(actions, fmt.Sprintf("1. Start a high-priority task (%d P0/P1 tasks waiting)\n   → %s",
			len(highPriWaiting), highPriWaiting[0].Title))
	}

	blocked := 0
	for _, t := range active {
		if t.Status == models.StatusBlocked {
			blocked++
		}
	}
	if blocked > 0 {
		actions = append(actions, fmt.Sprintf("2. Review %d blocked task(s) - might be unblocked now", blocked))
	}

	var oldestTitle string
	oldestAge := 0
	for _, t := range active {
		if t.Status != models.StatusNotStarted || t.ModTime.IsZero() {
			continue
		}
		age := int(now.Sub(t.ModTime).Hours() / 24)
		if age > limits.AgingDays && age > oldestAge {
			oldestAge = age
			oldestTitle = t.Title
		}
	}
	if oldestTitle != "" {
		actions = append(actions, fmt.Sprintf("3. Address aging tasks - '%s' is %d days old", oldestTitle, oldestAge))
	}

	return actions
}

func healthNotes(all, active []models.Task, contacts []models.Contact) []string {
	var notes []string

	missing := MissingContactNames(active, contacts)
	if len(missing) > 0 {
		notes = append(notes, fmt.Sprintf("⚠️ %d contacts mentioned in tasks but not in CRM: %s",
			len(missing), strings.Join(missing, ", ")))
	} else {
		notes = append(notes, "✓ CRM and tasks are in sync")
	}

	done := 0
	for _, t := range all {
		if t.Status == models.StatusDone {
			done++
		}
	}
	if done > 10 {
		notes = append(notes, fmt.Sprintf("ℹ️ %d completed tasks (run 'sift prune' to clean up)", done))
	}

	return notes
}

// MissingContactNames extracts probable contact names from outreach task
// titles (the word following "with", "to", or "contact") and returns those
// without a matching CRM entry, sorted alphabetically. Matching compares
// against each contact's first name.
func MissingContactNames(tasks []models.Task, contacts []models.Contact) []string {
	mentioned := make(map[string]struct{})
	for _, t := range tasks {
		if t.Category != models.CategoryOutreach {
			continue
		}
		words := strings.Fields(strings.ToLower(t.Title))
		for i, w := range words {
			if (w == "with" || w == "to" || w == "contact") && i+1 < len(words) {
				mentioned[titleCase(words[i+1])] = struct{}{}
			}
		}
	}

	known := make(map[string]struct{})
	for _, c := range contacts {
		if fields := strings.Fields(c.Name); len(fields) > 0 {
			known[fields[0]] = struct{}{}
		}
	}

	var missing []string
	for name := range mentioned {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// titleCase uppercases the first rune of a word and lowercases the rest.
func titleCase(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// BuildIntegrityReport runs the doctor checks: file integrity, priority
// concentration, duplicate titles, CRM consistency, and recent activity.
func BuildIntegrityReport(tasks []models.Task, malformed []string, contacts []models.Contact, limits models.LimitSettings, now time.Time) *IntegrityReport {
	active := activeTasks(tasks)

	report := &IntegrityReport{
		MalformedTasks: malformed,
	}

	check := CheckPriorityLimits(tasks, limits)
	report.PriorityAlerts = check.Alerts

	seen := make(map[string]int)
	for _, t := range active {
		seen[t.Title]++
	}
	for _, t := range active {
		if seen[t.Title] > 1 {
			report.DuplicateTitles = append(report.DuplicateTitles, t.Title)
			seen[t.Title] = 0 // report each duplicate title once
		}
	}

	report.MissingContacts = MissingContactNames(active, contacts)

	cutoff := now.AddDate(0, 0, -7)
	for _, t := range tasks {
		if t.ModTime.After(cutoff) {
			report.RecentTasks = append(report.RecentTasks, t.Filename)
		}
	}

	return report
}

// ReadGoals returns the content of GOALS.md under basePath, or an empty
// string when the file is missing or unreadable.
func ReadGoals(basePath string) string {
	data, err := os.ReadFile(filepath.Join(basePath, "GOALS.md"))
	if err != nil {
		return ""
	}
	return string(data)
}

// BuildSuggestions anticipates the next worthwhile steps from the current
// snapshot: work in flight, high priorities waiting, blockers, category
// balance, time of day, cleanup, and goal alignment.
func BuildSuggestions(tasks []models.Task, goals string, pruneDays int, now time.Time) []Suggestion {
	active := activeTasks(tasks)

	var started, highPriWaiting, blocked []models.Task
	for _, t := range active {
		switch {
		case t.Status == models.StatusStarted:
			started = append(started, t)
		case t.Status == models.StatusBlocked:
			blocked = append(blocked, t)
		case t.Status == models.StatusNotStarted && (t.Priority == models.P0 || t.Priority == models.P1):
			highPriWaiting = append(highPriWaiting, t)
		}
	}

	var suggestions []Suggestion

	if len(started) > 0 {
		var items []string
		for _, t := range started[:min(3, len(started))] {
			items = append(items, "Continue work on: "+t.Title)
		}
		suggestions = append(suggestions, Suggestion{
			Type:    "In-Progress Tasks",
			Items:   items,
			Command: "sift list --status started",
		})
	}

	if len(highPriWaiting) > 0 {
		var items []string
		for _, t := range highPriWaiting[:min(3, len(highPriWaiting))] {
			items = append(items, fmt.Sprintf("%s: %s", t.Priority, t.Title))
		}
		suggestions = append(suggestions, Suggestion{
			Type:    "High Priority Tasks to Start",
			Items:   items,
			Command: fmt.Sprintf("sift start '%s'", highPriWaiting[0].Filename),
		})
	}

	if len(blocked) > 0 {
		var items []string
		for _, t := range blocked[:min(2, len(blocked))] {
			items = append(items, t.Title+" (check if unblocked)")
		}
		suggestions = append(suggestions, Suggestion{
			Type:    "Blocked Tasks to Review",
			Items:   items,
			Command: "sift list --status blocked",
		})
	}

	if balance := categoryBalance(active); balance != nil {
		suggestions = append(suggestions, *balance)
	}

	hour := now.Hour()
	if hour >= 9 && hour < 12 {
		if countWhere(active, models.CategoryOutreach, models.StatusNotStarted) > 0 {
			suggestions = append(suggestions, Suggestion{
				Type:    "Morning Outreach",
				Items:   []string{"Morning is ideal for outreach - consider sending emails"},
				Command: "sift list --category outreach --status not_started",
			})
		}
	} else if hour >= 14 && hour < 17 {
		deep := 0
		for _, c := range []models.Category{models.CategoryTechnical, models.CategoryWriting, models.CategoryResearch} {
			deep += countWhere(active, c, models.StatusNotStarted)
		}
		if deep > 0 {
			suggestions = append(suggestions, Suggestion{
				Type:    "Afternoon Deep Work",
				Items:   []string{"Good time for focused technical/writing work"},
				Command: "sift list --category technical,writing,research --status not_started",
			})
		}
	}

	oldDone := 0
	cutoff := now.AddDate(0, 0, -pruneDays)
	for _, t := range tasks {
		if t.Status == models.StatusDone && t.ModTime.Before(cutoff) {
			oldDone++
		}
	}
	if oldDone > 10 {
		suggestions = append(suggestions, Suggestion{
			Type:    "Maintenance",
			Items:   []string{fmt.Sprintf("Clean up %d old completed tasks", oldDone)},
			Command: fmt.Sprintf("sift prune --days-old %d", pruneDays),
		})
	}

	if strings.Contains(strings.ToLower(goals), "current focus") {
		suggestions = append(suggestions, Suggestion{
			Type:    "Goal Alignment",
			Items:   []string{"Review if current tasks align with goals in GOALS.md"},
			Command: "cat GOALS.md",
		})
	}

	return suggestions
}

// categoryBalance suggests diversifying when more than half the active tasks
// sit in one category.
func categoryBalance(active []models.Task) *Suggestion {
	if len(active) == 0 {
		return nil
	}

	shares := categoryShares(active)
	top := shares[0]
	if float64(top.Count) <= float64(len(active))*0.5 {
		return nil
	}

	var items []string
	for _, c := range []models.Category{models.CategoryOutreach, models.CategoryTechnical, models.CategoryWriting, models.CategoryResearch} {
		if c == top.Category {
			continue
		}
		items = append(items, fmt.Sprintf("Consider adding more %s tasks for balance", c))
		if len(items) == 2 {
			break
		}
	}

	return &Suggestion{Type: "Category Balance", Items: items}
}

// BuildCRMSummary aggregates contacts by location, company, and relationship
// strength, most common first.
func BuildCRMSummary(contacts []models.Contact) *CRMSummary {
	summary := &CRMSummary{TotalContacts: len(contacts)}

	locations := make(map[string]int)
	companies := make(map[string]int)
	relationships := make(map[string]int)
	for _, c := range contacts {
		locations[valueOr(c.Location, "Unknown")]++
		companies[valueOr(c.Company, "Unknown")]++
		relationships[valueOr(c.RelationshipStrength, "unknown")]++
	}

	summary.ByLocation = mostCommon(locations, 0)
	summary.TopCompanies = mostCommon(companies, 10)
	summary.ByRelationship = mostCommon(relationships, 0)
	return summary
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// mostCommon flattens a count map into a slice sorted by descending count,
// ties broken alphabetically. A positive limit truncates the result.
func mostCommon(counts map[string]int, limit int) []NameCount {
	result := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, NameCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
