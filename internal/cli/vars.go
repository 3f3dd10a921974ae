package cli

import (
	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
	"github.com/ecrawford/sift/internal/storage"
)

// Service instances shared by the commands, set during app initialization
// in app.go.
var (
	BasePath string
	Cfg      = core.DefaultGlobalConfig()

	TaskMgr     core.TaskManager
	ContactMgr  core.ContactManager
	Triage      core.TriagePipeline
	TaskStore   storage.TaskStore
	BacklogMgr  storage.BacklogManager
	ProjectInit core.ProjectInitializer
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
