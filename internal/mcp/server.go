// Package mcp provides an MCP (Model Context Protocol) server that exposes
// sift tasks, contacts, and backlog triage as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/storage"
	"github.com/ecrawford/sift/pkg/models"
)

// Server wraps sift services and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	taskMgr    core.TaskManager
	contactMgr core.ContactManager
	triage     core.TriagePipeline
	backlog    storage.BacklogManager
	cfg        models.GlobalConfig
}

// NewServer creates a new MCP server with the given sift service dependencies.
func NewServer(taskMgr core.TaskManager, contactMgr core.ContactManager, triage core.TriagePipeline, backlog storage.BacklogManager, cfg models.GlobalConfig, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		taskMgr:    taskMgr,
		contactMgr: contactMgr,
		triage:     triage,
		backlog:    backlog,
		cfg:        cfg,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "sift", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listTasksInput struct {
	Category    string `json:"category,omitempty" jsonschema:"filter by category (comma-separated)"`
	Priority    string `json:"priority,omitempty" jsonschema:"filter by priority (comma-separated, e.g. P0,P1)"`
	Status      string `json:"status,omitempty" jsonschema:"filter by status (not_started, started, blocked, done or n,s,b,d; comma-separated)"`
	IncludeDone bool   `json:"include_done,omitempty" jsonschema:"include completed tasks"`
}

type taskOutput struct {
	Filename      string `json:"filename"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	EstimatedTime int    `json:"estimated_time"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Title         string `json:"title" jsonschema:"required,the task title"`
	Category      string `json:"category,omitempty" jsonschema:"task category (outreach, technical, research, writing, admin, social, other)"`
	Priority      string `json:"priority,omitempty" jsonschema:"priority (P0-P3)"`
	EstimatedTime int    `json:"estimated_time,omitempty" jsonschema:"estimated time in minutes"`
	Content       string `json:"content,omitempty" jsonschema:"task body placed under the title heading"`
}

type createTaskOutput struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

type updateTaskStatusInput struct {
	TaskFile string `json:"task_file" jsonschema:"required,the task filename"`
	Status   string `json:"status" jsonschema:"required,new status (not_started, started, blocked, done or n, s, b, d)"`
}

type updateTaskStatusOutput struct {
	TaskFile  string `json:"task_file"`
	NewStatus string `json:"new_status"`
}

type getTaskSummaryInput struct{}

type timeEstimateOutput struct {
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

type taskSummaryOutput struct {
	TotalTasks     int                           `json:"total_tasks"`
	ActiveTasks    int                           `json:"active_tasks"`
	ByPriority     map[string]int                `json:"by_priority"`
	ByCategory     map[string]int                `json:"by_category"`
	ByStatus       map[string]int                `json:"by_status"`
	TimeByPriority map[string]timeEstimateOutput `json:"time_by_priority"`
}

type checkPriorityLimitsInput struct{}

type priorityLimitsOutput struct {
	PriorityCounts map[string]int `json:"priority_counts"`
	Limits         map[string]int `json:"limits"`
	Alerts         []string       `json:"alerts"`
	Balanced       bool           `json:"balanced"`
}

type listContactsInput struct {
	Location string `json:"location,omitempty" jsonschema:"filter by location (comma-separated, substring match)"`
	Company  string `json:"company,omitempty" jsonschema:"filter by company (comma-separated, substring match)"`
	Name     string `json:"name,omitempty" jsonschema:"filter by name (substring match)"`
}

type contactOutput struct {
	Filename             string `json:"filename"`
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	Company              string `json:"company,omitempty"`
	Location             string `json:"location,omitempty"`
	Phone                string `json:"phone,omitempty"`
	LinkedIn             string `json:"linkedin,omitempty"`
	RelationshipStrength string `json:"relationship_strength,omitempty"`
	CreatedDate          string `json:"created_date,omitempty"`
	LastContact          string `json:"last_contact,omitempty"`
}

type listContactsOutput struct {
	Contacts []contactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

type addContactInput struct {
	Name     string `json:"name" jsonschema:"required,contact name"`
	Email    string `json:"email,omitempty" jsonschema:"email address"`
	Company  string `json:"company,omitempty" jsonschema:"company"`
	Location string `json:"location,omitempty" jsonschema:"location"`
	Phone    string `json:"phone,omitempty" jsonschema:"phone number"`
	LinkedIn string `json:"linkedin,omitempty" jsonschema:"LinkedIn URL"`
}

type addContactOutput struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

type searchContactsInput struct {
	Query string `json:"query" jsonschema:"required,text matched against name, company, email, location, and notes"`
}

type searchContactsOutput struct {
	Matches []contactOutput `json:"matches"`
	Count   int             `json:"count"`
	Query   string          `json:"query"`
}

type getSystemStatusInput struct{}

type systemStatusOutput struct {
	TotalActiveTasks     int            `json:"total_active_tasks"`
	TotalContacts        int            `json:"total_contacts"`
	PriorityDistribution map[string]int `json:"priority_distribution"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	BacklogItems         int            `json:"backlog_items"`
	TimeInsights         []string       `json:"time_insights"`
	Timestamp            string         `json:"timestamp"`
}

type processBacklogInput struct{}

type processBacklogOutput struct {
	Content string               `json:"content,omitempty"`
	Items   []models.BacklogItem `json:"parsed_items"`
	Count   int                  `json:"count"`
	Message string               `json:"message,omitempty"`
}

type clearBacklogInput struct{}

type clearBacklogOutput struct {
	Message string `json:"message"`
}

type pruneTasksInput struct {
	Days int `json:"days,omitempty" jsonschema:"delete done tasks older than this many days (defaults to the configured prune window)"`
}

type pruneTasksOutput struct {
	DeletedCount int      `json:"deleted_count"`
	DeletedFiles []string `json:"deleted_files"`
	Message      string   `json:"message"`
}

type triageInput struct {
	Items      []string `json:"items" jsonschema:"required,backlog items to process"`
	AutoCreate bool     `json:"auto_create,omitempty" jsonschema:"automatically create tasks for items that are clearly new"`
	Threshold  float64  `json:"threshold,omitempty" jsonschema:"similarity threshold override between 0 and 1"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional filters (category, priority, status). Done tasks are hidden unless include_done is set or a status filter names them.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task file. Defaults: category other, priority P2, 30 minute estimate.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Update task status. Accepts full names (not_started, started, blocked, done) or aliases (n, s, b, d).",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task_summary",
		Description: "Get summary statistics for all tasks: counts by priority, category, and status, plus time estimates per priority.",
	}, s.handleGetTaskSummary)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "check_priority_limits",
		Description: "Check whether active task counts exceed the per-priority limits.",
	}, s.handleCheckPriorityLimits)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_contacts",
		Description: "List CRM contacts with optional location, company, and name filters.",
	}, s.handleListContacts)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM.",
	}, s.handleAddContact)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_contacts",
		Description: "Search contacts by free-text query over name, company, email, location, and notes.",
	}, s.handleSearchContacts)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_system_status",
		Description: "Get a comprehensive system snapshot: active task distributions, contact count, backlog size, and time-of-day insights.",
	}, s.handleGetSystemStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "process_backlog",
		Description: "Read and return backlog contents as parsed items.",
	}, s.handleProcessBacklog)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "clear_backlog",
		Description: "Clear the backlog after processing.",
	}, s.handleClearBacklog)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "prune_completed_tasks",
		Description: "Delete completed tasks whose files are older than the given number of days.",
	}, s.handlePruneTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "process_backlog_with_dedup",
		Description: "Triage backlog items with duplicate detection and ambiguity clarification; optionally auto-create the clear ones.",
	}, s.handleTriage)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	filter, err := core.ParseTaskFilter(input.Category, input.Priority, input.Status, input.IncludeDone)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}

	tasks, err := s.taskMgr.ListTasks(filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}

	return nil, out, nil
}

func (s *Server) handleCreateTask(_ context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, createTaskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), createTaskOutput{}, nil
	}

	opts := core.CreateTaskOptions{
		Category:      models.Category(input.Category),
		Priority:      s.cfg.DefaultPriority,
		EstimatedTime: s.cfg.DefaultEstimatedTime,
		Content:       input.Content,
	}
	if input.Priority != "" {
		priority, err := models.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), createTaskOutput{}, nil
		}
		opts.Priority = priority
	}
	if input.EstimatedTime > 0 {
		opts.EstimatedTime = input.EstimatedTime
	}

	filename, err := s.taskMgr.CreateTask(input.Title, opts)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), createTaskOutput{}, nil
	}

	out := createTaskOutput{
		Filename: filename,
		Message:  fmt.Sprintf("Task '%s' created successfully", input.Title),
	}
	return nil, out, nil
}

func (s *Server) handleUpdateTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskFile == "" {
		return errorResult("task_file is required"), updateTaskStatusOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), updateTaskStatusOutput{}, nil
	}

	status, err := models.ParseStatus(input.Status)
	if err != nil {
		return errorResult(err.Error()), updateTaskStatusOutput{}, nil
	}

	if err := s.taskMgr.UpdateStatus(input.TaskFile, status); err != nil {
		return errorResult(fmt.Sprintf("updating task %s: %s", input.TaskFile, err)), updateTaskStatusOutput{}, nil
	}

	out := updateTaskStatusOutput{
		TaskFile:  core.EnsureMarkdownExt(input.TaskFile),
		NewStatus: string(status),
	}
	return nil, out, nil
}

func (s *Server) handleGetTaskSummary(_ context.Context, _ *gomcp.CallToolRequest, _ getTaskSummaryInput) (*gomcp.CallToolResult, taskSummaryOutput, error) {
	summary, err := s.taskMgr.Summary()
	if err != nil {
		return errorResult(fmt.Sprintf("building task summary: %s", err)), taskSummaryOutput{}, nil
	}

	out := taskSummaryOutput{
		TotalTasks:     summary.TotalTasks,
		ActiveTasks:    summary.ActiveTasks,
		ByPriority:     priorityCounts(summary.ByPriority),
		ByCategory:     categoryCounts(summary.ByCategory),
		ByStatus:       statusCounts(summary.ByStatus),
		TimeByPriority: make(map[string]timeEstimateOutput, len(summary.TimeByPriority)),
	}
	for priority, estimate := range summary.TimeByPriority {
		out.TimeByPriority[string(priority)] = timeEstimateOutput{
			TotalMinutes: estimate.TotalMinutes,
			TotalHours:   estimate.TotalHours,
		}
	}

	return nil, out, nil
}

func (s *Server) handleCheckPriorityLimits(_ context.Context, _ *gomcp.CallToolRequest, _ checkPriorityLimitsInput) (*gomcp.CallToolResult, priorityLimitsOutput, error) {
	check, err := s.taskMgr.CheckLimits(s.cfg.Limits)
	if err != nil {
		return errorResult(fmt.Sprintf("checking priority limits: %s", err)), priorityLimitsOutput{}, nil
	}

	out := priorityLimitsOutput{
		PriorityCounts: priorityCounts(check.PriorityCounts),
		Limits:         priorityCounts(check.Limits),
		Alerts:         check.Alerts,
		Balanced:       check.Balanced,
	}
	if out.Alerts == nil {
		out.Alerts = []string{}
	}
	return nil, out, nil
}

func (s *Server) handleListContacts(_ context.Context, _ *gomcp.CallToolRequest, input listContactsInput) (*gomcp.CallToolResult, listContactsOutput, error) {
	filter := core.ParseContactFilter(input.Location, input.Company, input.Name)

	contacts, err := s.contactMgr.ListContacts(filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing contacts: %s", err)), listContactsOutput{}, nil
	}

	out := listContactsOutput{
		Contacts: make([]contactOutput, len(contacts)),
		Count:    len(contacts),
	}
	for i, c := range contacts {
		out.Contacts[i] = contactToOutput(c)
	}

	return nil, out, nil
}

func (s *Server) handleAddContact(_ context.Context, _ *gomcp.CallToolRequest, input addContactInput) (*gomcp.CallToolResult, addContactOutput, error) {
	if input.Name == "" {
		return errorResult("name is required"), addContactOutput{}, nil
	}

	meta := models.ContactMeta{
		Name:     input.Name,
		Email:    input.Email,
		Company:  input.Company,
		Location: input.Location,
		Phone:    input.Phone,
		LinkedIn: input.LinkedIn,
	}

	filename, err := s.contactMgr.AddContact(meta)
	if err != nil {
		return errorResult(fmt.Sprintf("adding contact: %s", err)), addContactOutput{}, nil
	}

	out := addContactOutput{
		Filename: filename,
		Message:  fmt.Sprintf("Contact '%s' added successfully", input.Name),
	}
	return nil, out, nil
}

func (s *Server) handleSearchContacts(_ context.Context, _ *gomcp.CallToolRequest, input searchContactsInput) (*gomcp.CallToolResult, searchContactsOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), searchContactsOutput{}, nil
	}

	matches, err := s.contactMgr.SearchContacts(input.Query)
	if err != nil {
		return errorResult(fmt.Sprintf("searching contacts: %s", err)), searchContactsOutput{}, nil
	}

	out := searchContactsOutput{
		Matches: make([]contactOutput, len(matches)),
		Count:   len(matches),
		Query:   input.Query,
	}
	for i, c := range matches {
		out.Matches[i] = contactToOutput(c)
	}

	return nil, out, nil
}

func (s *Server) handleGetSystemStatus(_ context.Context, _ *gomcp.CallToolRequest, _ getSystemStatusInput) (*gomcp.CallToolResult, systemStatusOutput, error) {
	tasks, err := s.taskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), systemStatusOutput{}, nil
	}

	contacts, err := s.contactMgr.ListContacts(core.ContactFilter{})
	if err != nil {
		return errorResult(fmt.Sprintf("listing contacts: %s", err)), systemStatusOutput{}, nil
	}

	// A missing backlog file simply counts as zero items.
	backlogItems, err := s.backlog.Count()
	if err != nil {
		return errorResult(fmt.Sprintf("counting backlog items: %s", err)), systemStatusOutput{}, nil
	}

	status := core.BuildSystemStatus(tasks, contacts, backlogItems, time.Now())

	out := systemStatusOutput{
		TotalActiveTasks:     status.TotalActiveTasks,
		TotalContacts:        status.TotalContacts,
		PriorityDistribution: priorityCounts(status.PriorityDistribution),
		StatusDistribution:   statusCounts(status.StatusDistribution),
		CategoryDistribution: categoryCounts(status.CategoryDistribution),
		BacklogItems:         status.BacklogItems,
		TimeInsights:         status.TimeInsights,
		Timestamp:            status.Timestamp,
	}
	if out.TimeInsights == nil {
		out.TimeInsights = []string{}
	}
	return nil, out, nil
}

func (s *Server) handleProcessBacklog(_ context.Context, _ *gomcp.CallToolRequest, _ processBacklogInput) (*gomcp.CallToolResult, processBacklogOutput, error) {
	content, err := s.backlog.Read()
	if err != nil {
		return errorResult(err.Error()), processBacklogOutput{}, nil
	}

	if content.IsClear() {
		out := processBacklogOutput{
			Items:   []models.BacklogItem{},
			Message: "Backlog is already clear",
		}
		return nil, out, nil
	}

	out := processBacklogOutput{
		Content: content.Raw,
		Items:   content.Items,
		Count:   len(content.Items),
	}
	if out.Items == nil {
		out.Items = []models.BacklogItem{}
	}
	return nil, out, nil
}

func (s *Server) handleClearBacklog(_ context.Context, _ *gomcp.CallToolRequest, _ clearBacklogInput) (*gomcp.CallToolResult, clearBacklogOutput, error) {
	if err := s.backlog.Clear(); err != nil {
		return errorResult(fmt.Sprintf("clearing backlog: %s", err)), clearBacklogOutput{}, nil
	}

	out := clearBacklogOutput{Message: "Backlog cleared successfully"}
	return nil, out, nil
}

func (s *Server) handlePruneTasks(_ context.Context, _ *gomcp.CallToolRequest, input pruneTasksInput) (*gomcp.CallToolResult, pruneTasksOutput, error) {
	days := input.Days
	if days <= 0 {
		days = s.cfg.PruneDays
	}

	deleted, err := s.taskMgr.Prune(days)
	if err != nil {
		return errorResult(fmt.Sprintf("pruning tasks: %s", err)), pruneTasksOutput{}, nil
	}
	if deleted == nil {
		deleted = []string{}
	}

	out := pruneTasksOutput{
		DeletedCount: len(deleted),
		DeletedFiles: deleted,
		Message:      fmt.Sprintf("Deleted %d tasks older than %d days", len(deleted), days),
	}
	return nil, out, nil
}

func (s *Server) handleTriage(_ context.Context, _ *gomcp.CallToolRequest, input triageInput) (*gomcp.CallToolResult, models.TriageBatchResult, error) {
	if len(input.Items) == 0 {
		return errorResult("No items provided to process"), models.TriageBatchResult{}, nil
	}

	opts := core.TriageOptions{
		AutoCreate:    input.AutoCreate,
		Settings:      s.cfg.Triage,
		Priority:      s.cfg.DefaultPriority,
		EstimatedTime: s.cfg.TriageEstimatedTime,
	}
	if input.Threshold > 0 {
		opts.Settings.SimilarityThreshold = input.Threshold
	}

	result := s.triage.Process(input.Items, opts)
	return nil, *result, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		Filename:      t.Filename,
		Title:         t.Title,
		Category:      string(t.Category),
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		EstimatedTime: t.EstimatedTime,
	}
}

func contactToOutput(c models.Contact) contactOutput {
	return contactOutput{
		Filename:             c.Filename,
		Name:                 c.Name,
		Email:                c.Email,
		Company:              c.Company,
		Location:             c.Location,
		Phone:                c.Phone,
		LinkedIn:             c.LinkedIn,
		RelationshipStrength: c.RelationshipStrength,
		CreatedDate:          c.CreatedDate,
		LastContact:          c.LastContact,
	}
}

func priorityCounts(m map[models.Priority]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func categoryCounts(m map[models.Category]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func statusCounts(m map[models.TaskStatus]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
