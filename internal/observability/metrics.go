package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	TasksCreated      int            `json:"tasks_created"`
	TasksCompleted    int            `json:"tasks_completed"`
	TasksPruned       int            `json:"tasks_pruned"`
	TasksByCategory   map[string]int `json:"tasks_by_category"`
	StatusChanges     map[string]int `json:"status_changes"`
	ContactsAdded     int            `json:"contacts_added"`
	ContactsUpdated   int            `json:"contacts_updated"`
	TriageRuns        int            `json:"triage_runs"`
	TriageItems       int            `json:"triage_items"`
	TriageAutoCreated int            `json:"triage_auto_created"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TasksByCategory: make(map[string]int),
		StatusChanges:   make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.created":
			m.TasksCreated++
			if category, ok := event.Data["category"].(string); ok {
				m.TasksByCategory[category]++
			}
		case "task.status_changed":
			if status, ok := event.Data["status"].(string); ok {
				m.StatusChanges[status]++
				if status == "done" {
					m.TasksCompleted++
				}
			}
		case "task.pruned":
			m.TasksPruned++
		case "contact.added":
			m.ContactsAdded++
		case "contact.updated":
			m.ContactsUpdated++
		case "triage.processed":
			m.TriageRuns++
			m.TriageItems += intField(event.Data, "total_items")
			m.TriageAutoCreated += intField(event.Data, "auto_created")
		}
	}

	return m, nil
}

// intField reads a numeric data field. JSON decoding yields float64 for all
// numbers, while events written in-process carry int.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
