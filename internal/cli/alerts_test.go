package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
	"github.com/ecrawford/sift/pkg/models"
)

func TestAlertsCmd_NilEngine(t *testing.T) {
	orig := AlertEngine
	AlertEngine = nil
	defer func() { AlertEngine = orig }()

	err := alertsCmd.RunE(alertsCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "alert engine not initialized") {
		t.Fatalf("expected initialization error, got %v", err)
	}
}

func TestAlertsCmd_NilTaskManager(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	AlertEngine = &alertEngineMock{}
	TaskMgr = nil
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
	}()

	err := alertsCmd.RunE(alertsCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "task manager not initialized") {
		t.Fatalf("expected initialization error, got %v", err)
	}
}

func TestAlertsCmd_NoAlerts(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origBacklog := BacklogMgr
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		BacklogMgr = origBacklog
	}()

	AlertEngine = &alertEngineMock{
		evaluateFn: func(snapshot observability.AlertSnapshot) []observability.Alert {
			return nil
		},
	}
	TaskMgr = &taskMgrMock{}
	BacklogMgr = &backlogMgrMock{}

	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("RunE returned error: %v", err)
	}
}

func TestAlertsCmd_PassesSnapshot(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origBacklog := BacklogMgr
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		BacklogMgr = origBacklog
	}()

	var gotSnapshot observability.AlertSnapshot
	AlertEngine = &alertEngineMock{
		evaluateFn: func(snapshot observability.AlertSnapshot) []observability.Alert {
			gotSnapshot = snapshot
			return []observability.Alert{
				{
					ID:          "priority-overload-p0",
					Severity:    observability.SeverityHigh,
					Message:     "P0 has 4 active tasks (limit 3)",
					TriggeredAt: time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
				},
			}
		},
	}
	var gotFilter core.TaskFilter
	TaskMgr = &taskMgrMock{
		listTasksFn: func(filter core.TaskFilter) ([]models.Task, error) {
			gotFilter = filter
			return []models.Task{
				{Filename: "a.md", TaskMeta: models.TaskMeta{Title: "A", Priority: models.P0, Status: models.StatusNotStarted}},
			}, nil
		},
	}
	BacklogMgr = &backlogMgrMock{
		countFn: func() (int, error) { return 12, nil },
	}

	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("RunE returned error: %v", err)
	}
	if !gotFilter.IncludeDone {
		t.Error("alerts must list with IncludeDone")
	}
	if len(gotSnapshot.Tasks) != 1 {
		t.Errorf("snapshot tasks = %d, want 1", len(gotSnapshot.Tasks))
	}
	if gotSnapshot.BacklogItems != 12 {
		t.Errorf("snapshot backlog items = %d, want 12", gotSnapshot.BacklogItems)
	}
	if gotSnapshot.Now.IsZero() {
		t.Error("snapshot time must be set")
	}
}

func TestAlertsCmd_NotifyWithoutNotifier(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origNotifier := Notifier
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		Notifier = origNotifier
	}()

	AlertEngine = &alertEngineMock{
		evaluateFn: func(snapshot observability.AlertSnapshot) []observability.Alert {
			return []observability.Alert{{ID: "backlog-overflow", Severity: observability.SeverityMedium, Message: "backlog has 15 items"}}
		},
	}
	TaskMgr = &taskMgrMock{}
	Notifier = nil

	alertsCmd.Flags().Set("notify", "true")
	defer alertsCmd.Flags().Set("notify", "false")

	err := alertsCmd.RunE(alertsCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "notifier not configured") {
		t.Fatalf("expected notifier configuration error, got %v", err)
	}
}

func TestAlertsCmd_NotifySendsAlerts(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origNotifier := Notifier
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		Notifier = origNotifier
	}()

	triggered := []observability.Alert{
		{ID: "aging-tasks", Severity: observability.SeverityLow, Message: "2 tasks older than 7 days"},
	}
	AlertEngine = &alertEngineMock{
		evaluateFn: func(snapshot observability.AlertSnapshot) []observability.Alert {
			return triggered
		},
	}
	TaskMgr = &taskMgrMock{}
	var sent []observability.Alert
	Notifier = &notifierMock{
		notifyFn: func(alerts []observability.Alert) error {
			sent = alerts
			return nil
		},
	}

	alertsCmd.Flags().Set("notify", "true")
	defer alertsCmd.Flags().Set("notify", "false")

	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("RunE returned error: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != "aging-tasks" {
		t.Errorf("sent alerts = %+v", sent)
	}
}

func TestAlertsCmd_NotifySkippedWhenNoAlerts(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origNotifier := Notifier
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		Notifier = origNotifier
	}()

	AlertEngine = &alertEngineMock{}
	TaskMgr = &taskMgrMock{}
	notified := false
	Notifier = &notifierMock{
		notifyFn: func(alerts []observability.Alert) error {
			notified = true
			return nil
		},
	}

	alertsCmd.Flags().Set("notify", "true")
	defer alertsCmd.Flags().Set("notify", "false")

	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("RunE returned error: %v", err)
	}
	if notified {
		t.Error("nothing should be sent when no alert triggered")
	}
}

func TestAlertsCmd_NotifyError(t *testing.T) {
	origEngine := AlertEngine
	origMgr := TaskMgr
	origNotifier := Notifier
	defer func() {
		AlertEngine = origEngine
		TaskMgr = origMgr
		Notifier = origNotifier
	}()

	AlertEngine = &alertEngineMock{
		evaluateFn: func(snapshot observability.AlertSnapshot) []observability.Alert {
			return []observability.Alert{{ID: "backlog-overflow", Severity: observability.SeverityMedium, Message: "backlog has 15 items"}}
		},
	}
	TaskMgr = &taskMgrMock{}
	Notifier = &notifierMock{
		notifyFn: func(alerts []observability.Alert) error { return errTest },
	}

	alertsCmd.Flags().Set("notify", "true")
	defer alertsCmd.Flags().Set("notify", "false")

	err := alertsCmd.RunE(alertsCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "sending notifications") {
		t.Fatalf("expected wrapped notify error, got %v", err)
	}
}
