package observability

import (
	"fmt"
	"time"

	"github.com/ecrawford/sift/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	P0Limit         int `yaml:"p0_limit" json:"p0_limit"`
	P1Limit         int `yaml:"p1_limit" json:"p1_limit"`
	P2Limit         int `yaml:"p2_limit" json:"p2_limit"`
	AgingDays       int `yaml:"aging_days" json:"aging_days"`
	MaxBacklogItems int `yaml:"max_backlog_items" json:"max_backlog_items"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		P0Limit:         3,
		P1Limit:         5,
		P2Limit:         10,
		AgingDays:       7,
		MaxBacklogItems: 10,
	}
}

// ThresholdsFromLimits maps the configured limit settings onto alert
// thresholds so alerts and reports agree on what "over limit" means.
func ThresholdsFromLimits(limits models.LimitSettings) AlertThresholds {
	return AlertThresholds{
		P0Limit:         limits.P0,
		P1Limit:         limits.P1,
		P2Limit:         limits.P2,
		AgingDays:       limits.AgingDays,
		MaxBacklogItems: limits.MaxBacklogItems,
	}
}

// AlertSnapshot is the state the engine evaluates: the current task list
// plus the number of unprocessed backlog items. A zero Now means "use the
// current time".
type AlertSnapshot struct {
	Tasks        []models.Task
	BacklogItems int
	Now          time.Time
}

// AlertEngine evaluates alert conditions against a snapshot of the system.
type AlertEngine interface {
	Evaluate(snapshot AlertSnapshot) []Alert
}

// alertEngine implements AlertEngine by checking the snapshot against thresholds.
type alertEngine struct {
	thresholds AlertThresholds
}

// NewAlertEngine creates a new AlertEngine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) AlertEngine {
	return &alertEngine{thresholds: thresholds}
}

// Evaluate checks all alert conditions and returns any triggered alerts.
func (ae *alertEngine) Evaluate(snapshot AlertSnapshot) []Alert {
	now := snapshot.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var alerts []Alert
	alerts = append(alerts, ae.checkPriorityLoad(snapshot.Tasks, now)...)
	alerts = append(alerts, ae.checkAgingTasks(snapshot.Tasks, now)...)
	alerts = append(alerts, ae.checkBacklogSize(snapshot.BacklogItems, now)...)
	return alerts
}

// checkPriorityLoad alerts when a priority band holds more active tasks than
// its configured limit.
func (ae *alertEngine) checkPriorityLoad(tasks []models.Task, now time.Time) []Alert {
	counts := make(map[models.Priority]int)
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			continue
		}
		counts[t.Priority]++
	}

	checks := []struct {
		priority models.Priority
		limit    int
		severity AlertSeverity
	}{
		{models.P0, ae.thresholds.P0Limit, SeverityHigh},
		{models.P1, ae.thresholds.P1Limit, SeverityMedium},
		{models.P2, ae.thresholds.P2Limit, SeverityLow},
	}

	var alerts []Alert
	for _, c := range checks {
		if counts[c.priority] > c.limit {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("priority-%s", c.priority),
				Condition:   "priority_overload",
				Severity:    c.severity,
				Message:     fmt.Sprintf("%s has %d active tasks, exceeding the limit of %d", c.priority, counts[c.priority], c.limit),
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkAgingTasks alerts on not-started tasks whose file has not been touched
// for longer than the aging threshold.
func (ae *alertEngine) checkAgingTasks(tasks []models.Task, now time.Time) []Alert {
	threshold := time.Duration(ae.thresholds.AgingDays) * 24 * time.Hour

	var alerts []Alert
	for _, t := range tasks {
		if t.Status != models.StatusNotStarted || t.ModTime.IsZero() {
			continue
		}
		age := now.Sub(t.ModTime)
		if age > threshold {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("aging-%s", t.Filename),
				Condition:   "task_aging",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("task '%s' has waited %d days without being started", t.Title, int(age.Hours()/24)),
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkBacklogSize alerts when the backlog holds more items than the threshold.
func (ae *alertEngine) checkBacklogSize(backlogItems int, now time.Time) []Alert {
	if backlogItems <= ae.thresholds.MaxBacklogItems {
		return nil
	}
	return []Alert{{
		ID:          "backlog-size",
		Condition:   "backlog_too_large",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("backlog has %d items, exceeding the maximum of %d", backlogItems, ae.thresholds.MaxBacklogItems),
		TriggeredAt: now,
	}}
}
