package cli

import (
	"strings"
	"testing"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/pkg/models"
)

func TestStatusCmd_NilManagers(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
	}()

	TaskMgr = nil
	ContactMgr = &contactMgrMock{}
	err := statusCmd.RunE(statusCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "managers not initialized") {
		t.Fatalf("expected initialization error with nil task manager, got %v", err)
	}

	TaskMgr = &taskMgrMock{}
	ContactMgr = nil
	err = statusCmd.RunE(statusCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "managers not initialized") {
		t.Fatalf("expected initialization error with nil contact manager, got %v", err)
	}
}

func TestBuildStatusReport_IncludesDoneTasks(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	origBacklog := BacklogMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
		BacklogMgr = origBacklog
	}()

	var gotFilter core.TaskFilter
	TaskMgr = &taskMgrMock{
		listTasksFn: func(filter core.TaskFilter) ([]models.Task, error) {
			gotFilter = filter
			return []models.Task{
				{Filename: "a.md", TaskMeta: models.TaskMeta{Title: "A", Priority: models.P1, Status: models.StatusStarted}},
			}, nil
		},
	}
	ContactMgr = &contactMgrMock{
		listContactsFn: func(filter core.ContactFilter) ([]models.Contact, error) {
			return []models.Contact{{ContactMeta: models.ContactMeta{Name: "Sarah Chen"}}}, nil
		},
	}
	BacklogMgr = &backlogMgrMock{
		countFn: func() (int, error) { return 4, nil },
	}

	report, err := buildStatusReport()
	if err != nil {
		t.Fatalf("buildStatusReport returned error: %v", err)
	}
	if !gotFilter.IncludeDone {
		t.Error("status must list with IncludeDone so cleanup hints see completed tasks")
	}
	if report.ActiveTasks != 1 {
		t.Errorf("ActiveTasks = %d, want 1", report.ActiveTasks)
	}
	if report.TotalContacts != 1 {
		t.Errorf("TotalContacts = %d, want 1", report.TotalContacts)
	}
	if report.BacklogItems != 4 {
		t.Errorf("BacklogItems = %d, want 4", report.BacklogItems)
	}
}

func TestBuildStatusReport_ToleratesNilBacklogManager(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	origBacklog := BacklogMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
		BacklogMgr = origBacklog
	}()

	TaskMgr = &taskMgrMock{}
	ContactMgr = &contactMgrMock{}
	BacklogMgr = nil

	report, err := buildStatusReport()
	if err != nil {
		t.Fatalf("buildStatusReport returned error: %v", err)
	}
	if report.BacklogItems != 0 {
		t.Errorf("BacklogItems = %d, want 0 without a backlog manager", report.BacklogItems)
	}
}

func TestBuildStatusReport_ToleratesBacklogCountError(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	origBacklog := BacklogMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
		BacklogMgr = origBacklog
	}()

	TaskMgr = &taskMgrMock{}
	ContactMgr = &contactMgrMock{}
	BacklogMgr = &backlogMgrMock{
		countFn: func() (int, error) { return 0, errTest },
	}

	report, err := buildStatusReport()
	if err != nil {
		t.Fatalf("a backlog count failure must not fail the report, got %v", err)
	}
	if report.BacklogItems != 0 {
		t.Errorf("BacklogItems = %d, want 0 on count failure", report.BacklogItems)
	}
}

func TestBuildStatusReport_WrapsListErrors(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
	}()

	TaskMgr = &taskMgrMock{
		listTasksFn: func(filter core.TaskFilter) ([]models.Task, error) { return nil, errTest },
	}
	ContactMgr = &contactMgrMock{}
	_, err := buildStatusReport()
	if err == nil || !strings.Contains(err.Error(), "listing tasks") {
		t.Fatalf("expected wrapped task list error, got %v", err)
	}

	TaskMgr = &taskMgrMock{}
	ContactMgr = &contactMgrMock{
		listContactsFn: func(filter core.ContactFilter) ([]models.Contact, error) { return nil, errTest },
	}
	_, err = buildStatusReport()
	if err == nil || !strings.Contains(err.Error(), "listing contacts") {
		t.Fatalf("expected wrapped contact list error, got %v", err)
	}
}

func TestStatusCmd_PrintsFullReport(t *testing.T) {
	origTask := TaskMgr
	origContact := ContactMgr
	origBacklog := BacklogMgr
	defer func() {
		TaskMgr = origTask
		ContactMgr = origContact
		BacklogMgr = origBacklog
	}()

	TaskMgr = &taskMgrMock{
		listTasksFn: func(filter core.TaskFilter) ([]models.Task, error) {
			return []models.Task{
				{Filename: "a.md", TaskMeta: models.TaskMeta{Title: "A", Priority: models.P0, Status: models.StatusStarted, EstimatedTime: 60}},
				{Filename: "b.md", TaskMeta: models.TaskMeta{Title: "B", Priority: models.P2, Status: models.StatusBlocked, EstimatedTime: 30}},
				{Filename: "c.md", TaskMeta: models.TaskMeta{Title: "C", Priority: models.P3, Status: models.StatusDone}},
			}, nil
		},
	}
	ContactMgr = &contactMgrMock{}
	BacklogMgr = &backlogMgrMock{
		countFn: func() (int, error) { return 2, nil },
	}

	if err := statusCmd.RunE(statusCmd, nil); err != nil {
		t.Fatalf("RunE returned error: %v", err)
	}
}
