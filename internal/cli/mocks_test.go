package cli

import (
	"errors"
	"time"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
	"github.com/ecrawford/sift/internal/storage"
	"github.com/ecrawford/sift/pkg/models"
)

// errTest is the stock failure injected by mocks across the command tests.
var errTest = errors.New("disk on fire")

// Function-field mocks for the service interfaces the commands depend on.
// Unset fields return zero values so each test only wires what it checks.

type taskMgrMock struct {
	listTasksFn    func(filter core.TaskFilter) ([]models.Task, error)
	getTaskFn      func(filename string) (*models.Task, error)
	createTaskFn   func(title string, opts core.CreateTaskOptions) (string, error)
	updateStatusFn func(filename string, status models.TaskStatus) error
	startTaskFn    func(filename string) error
	completeTaskFn func(filename string) error
	pruneFn        func(daysOld int) ([]string, error)
	summaryFn      func() (*core.TaskSummary, error)
	checkLimitsFn  func(limits models.LimitSettings) (*core.PriorityLimitCheck, error)
}

func (m *taskMgrMock) ListTasks(filter core.TaskFilter) ([]models.Task, error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(filter)
	}
	return nil, nil
}

func (m *taskMgrMock) GetTask(filename string) (*models.Task, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(filename)
	}
	return nil, nil
}

func (m *taskMgrMock) CreateTask(title string, opts core.CreateTaskOptions) (string, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(title, opts)
	}
	return "", nil
}

func (m *taskMgrMock) UpdateStatus(filename string, status models.TaskStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(filename, status)
	}
	return nil
}

func (m *taskMgrMock) StartTask(filename string) error {
	if m.startTaskFn != nil {
		return m.startTaskFn(filename)
	}
	return nil
}

func (m *taskMgrMock) CompleteTask(filename string) error {
	if m.completeTaskFn != nil {
		return m.completeTaskFn(filename)
	}
	return nil
}

func (m *taskMgrMock) Prune(daysOld int) ([]string, error) {
	if m.pruneFn != nil {
		return m.pruneFn(daysOld)
	}
	return nil, nil
}

func (m *taskMgrMock) Summary() (*core.TaskSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return &core.TaskSummary{}, nil
}

func (m *taskMgrMock) CheckLimits(limits models.LimitSettings) (*core.PriorityLimitCheck, error) {
	if m.checkLimitsFn != nil {
		return m.checkLimitsFn(limits)
	}
	return &core.PriorityLimitCheck{Balanced: true}, nil
}

type contactMgrMock struct {
	listContactsFn   func(filter core.ContactFilter) ([]models.Contact, error)
	addContactFn     func(meta models.ContactMeta) (string, error)
	updateFieldFn    func(name, field, value string) error
	searchContactsFn func(query string) ([]models.Contact, error)
	summaryFn        func() (*core.CRMSummary, error)
}

func (m *contactMgrMock) ListContacts(filter core.ContactFilter) ([]models.Contact, error) {
	if m.listContactsFn != nil {
		return m.listContactsFn(filter)
	}
	return nil, nil
}

func (m *contactMgrMock) AddContact(meta models.ContactMeta) (string, error) {
	if m.addContactFn != nil {
		return m.addContactFn(meta)
	}
	return "", nil
}

func (m *contactMgrMock) UpdateField(name, field, value string) error {
	if m.updateFieldFn != nil {
		return m.updateFieldFn(name, field, value)
	}
	return nil
}

func (m *contactMgrMock) SearchContacts(query string) ([]models.Contact, error) {
	if m.searchContactsFn != nil {
		return m.searchContactsFn(query)
	}
	return nil, nil
}

func (m *contactMgrMock) Summary() (*core.CRMSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return &core.CRMSummary{}, nil
}

type triageMock struct {
	processFn func(items []string, opts core.TriageOptions) *models.TriageBatchResult
}

func (m *triageMock) Process(items []string, opts core.TriageOptions) *models.TriageBatchResult {
	if m.processFn != nil {
		return m.processFn(items, opts)
	}
	return &models.TriageBatchResult{}
}

type backlogMgrMock struct {
	readFn  func() (*storage.BacklogContent, error)
	countFn func() (int, error)
	clearFn func() error
	path    string
}

func (m *backlogMgrMock) Read() (*storage.BacklogContent, error) {
	if m.readFn != nil {
		return m.readFn()
	}
	return &storage.BacklogContent{}, nil
}

func (m *backlogMgrMock) Count() (int, error) {
	if m.countFn != nil {
		return m.countFn()
	}
	return 0, nil
}

func (m *backlogMgrMock) Clear() error {
	if m.clearFn != nil {
		return m.clearFn()
	}
	return nil
}

func (m *backlogMgrMock) Path() string {
	return m.path
}

type taskStoreMock struct {
	listFn      func() ([]models.Task, error)
	malformedFn func() ([]string, error)
}

func (m *taskStoreMock) List() ([]models.Task, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, nil
}

func (m *taskStoreMock) Get(filename string) (*models.Task, error) { return nil, nil }

func (m *taskStoreMock) Create(filename string, meta models.TaskMeta, body string) error { return nil }

func (m *taskStoreMock) UpdateStatus(filename string, status models.TaskStatus) error { return nil }

func (m *taskStoreMock) Delete(filename string) error { return nil }

func (m *taskStoreMock) Malformed() ([]string, error) {
	if m.malformedFn != nil {
		return m.malformedFn()
	}
	return nil, nil
}

type projectInitMock struct {
	initFn func(config core.InitConfig) (*core.InitResult, error)
}

func (m *projectInitMock) Init(config core.InitConfig) (*core.InitResult, error) {
	if m.initFn != nil {
		return m.initFn(config)
	}
	return &core.InitResult{}, nil
}

type metricsMock struct {
	calculateFn func(since time.Time) (*observability.Metrics, error)
}

func (m *metricsMock) Calculate(since time.Time) (*observability.Metrics, error) {
	if m.calculateFn != nil {
		return m.calculateFn(since)
	}
	return &observability.Metrics{}, nil
}

type alertEngineMock struct {
	evaluateFn func(snapshot observability.AlertSnapshot) []observability.Alert
}

func (m *alertEngineMock) Evaluate(snapshot observability.AlertSnapshot) []observability.Alert {
	if m.evaluateFn != nil {
		return m.evaluateFn(snapshot)
	}
	return nil
}

type notifierMock struct {
	notifyFn func(alerts []observability.Alert) error
}

func (m *notifierMock) Notify(alerts []observability.Alert) error {
	if m.notifyFn != nil {
		return m.notifyFn(alerts)
	}
	return nil
}
