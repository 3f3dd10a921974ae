// Package internal provides the App struct that wires all components of
// sift together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/ecrawford/sift/internal/cli"
	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
	"github.com/ecrawford/sift/internal/storage"
	"github.com/ecrawford/sift/pkg/models"
)

// App holds all service dependencies for sift.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    models.GlobalConfig

	// Storage layer
	TaskStore    storage.TaskStore
	ContactStore storage.ContactStore
	BacklogMgr   storage.BacklogManager

	// Core services
	TaskMgr     core.TaskManager
	ContactMgr  core.ContactManager
	Triage      core.TriagePipeline
	ProjectInit core.ProjectInitializer

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of sift. basePath is the root
// directory holding Tasks/, CRM/, BACKLOG.md, and config.yaml.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// Run on defaults if the config file is unreadable.
		defaults := core.DefaultGlobalConfig()
		cfg = &defaults
	}
	app.Config = *cfg

	// --- Storage layer ---
	app.TaskStore = storage.NewTaskStore(basePath)
	app.ContactStore = storage.NewContactStore(basePath)
	app.BacklogMgr = storage.NewBacklogManager(basePath)

	// --- Observability ---
	logDir := filepath.Join(basePath, ".sift")
	if err := os.MkdirAll(logDir, 0o750); err == nil {
		eventLog, logErr := observability.NewJSONLEventLog(filepath.Join(logDir, "events.jsonl"))
		if logErr == nil {
			app.EventLog = eventLog
		}
		// Non-fatal: run without event logging if the log can't be created.
	}
	app.AlertEngine = observability.NewAlertEngine(observability.ThresholdsFromLimits(app.Config.Limits))
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if app.Config.Notifications.SlackWebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(app.Config.Notifications.SlackWebhookURL)
	}

	// --- Core services ---
	var evt core.EventLogger
	if app.EventLog != nil {
		evt = app.EventLog
	}
	app.TaskMgr = core.NewTaskManager(app.TaskStore, evt)
	app.ContactMgr = core.NewContactManager(app.ContactStore, evt)
	app.Triage = core.NewTriagePipeline(app.TaskStore, evt)
	app.ProjectInit = core.NewProjectInitializer()

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Cfg = app.Config
	cli.TaskMgr = app.TaskMgr
	cli.ContactMgr = app.ContactMgr
	cli.Triage = app.Triage
	cli.TaskStore = app.TaskStore
	cli.BacklogMgr = app.BacklogMgr
	cli.ProjectInit = app.ProjectInit

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the sift workspace. It checks
// the SIFT_BASE_DIR env var, then walks up from the current directory looking
// for a config.yaml, and falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("SIFT_BASE_DIR"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}
