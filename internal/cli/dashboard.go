package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ecrawford/sift/internal/core"
	"github.com/ecrawford/sift/internal/observability"
	"github.com/ecrawford/sift/pkg/models"
)

// Dashboard panel indices.
const (
	panelPriorities = iota
	panelStatus
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	priorityCounts map[models.Priority]int
	statusCounts   map[models.TaskStatus]int
	startedTitles  []string
	backlogItems   int
	alerts         []alertRow

	// State.
	loading bool
	err     error
}

type alertRow struct {
	severity string
	message  string
	time     string
}

// dashboardDataMsg carries loaded data back to the model.
type dashboardDataMsg struct {
	priorityCounts map[models.Priority]int
	statusCounts   map[models.TaskStatus]int
	startedTitles  []string
	backlogItems   int
	alerts         []alertRow
	err            error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	priorityP0 = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	priorityP1 = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	priorityP2 = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	priorityP3 = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statusStarted    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlockedSty = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusNotStarted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel:    panelPriorities,
		loading:        true,
		priorityCounts: make(map[models.Priority]int),
		statusCounts:   make(map[models.TaskStatus]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.priorityCounts = msg.priorityCounts
		m.statusCounts = msg.statusCounts
		m.startedTitles = msg.startedTitles
		m.backlogItems = msg.backlogItems
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" sift Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	prioritiesPanel := m.renderPrioritiesPanel()
	statusPanel := m.renderStatusPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		prioritiesPanel = m.applyPanelStyle(panelPriorities, prioritiesPanel, colWidth-4)
		statusPanel = m.applyPanelStyle(panelStatus, statusPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, prioritiesPanel, statusPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		prioritiesPanel = m.applyPanelStyle(panelPriorities, prioritiesPanel, panelWidth)
		statusPanel = m.applyPanelStyle(panelStatus, statusPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, prioritiesPanel, statusPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderPrioritiesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Priorities (active)"))
	b.WriteString("\n")

	total := 0
	for _, p := range models.Priorities {
		count := m.priorityCounts[p]
		total += count
		label := fmt.Sprintf("  %-6s %d", p, count)
		if limit, ok := priorityLimit(p); ok && count > limit {
			label += " ⚠"
		}
		b.WriteString(styleForPriority(p).Render(label))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  Active: %d", total))

	return b.String()
}

func (m dashboardModel) renderStatusPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Status"))
	b.WriteString("\n")

	if len(m.statusCounts) == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	// Display in lifecycle order.
	order := []models.TaskStatus{
		models.StatusStarted,
		models.StatusBlocked,
		models.StatusNotStarted,
		models.StatusDone,
	}
	for _, status := range order {
		count, ok := m.statusCounts[status]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %s %-12s %d", status.Icon(), status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}

	for _, title := range m.startedTitles {
		b.WriteString(fmt.Sprintf("    → %s\n", title))
	}

	if m.backlogItems > 0 {
		b.WriteString(fmt.Sprintf("\n  Backlog: %d item(s)", m.backlogItems))
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func priorityLimit(p models.Priority) (int, bool) {
	switch p {
	case models.P0:
		return Cfg.Limits.P0, true
	case models.P1:
		return Cfg.Limits.P1, true
	case models.P2:
		return Cfg.Limits.P2, true
	default:
		return 0, false
	}
}

func styleForPriority(p models.Priority) lipgloss.Style {
	switch p {
	case models.P0:
		return priorityP0
	case models.P1:
		return priorityP1
	case models.P2:
		return priorityP2
	case models.P3:
		return priorityP3
	default:
		return lipgloss.NewStyle()
	}
}

func styleForStatus(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusStarted:
		return statusStarted
	case models.StatusDone:
		return statusDoneStyle
	case models.StatusBlocked:
		return statusBlockedSty
	case models.StatusNotStarted:
		return statusNotStarted
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData() tea.Msg {
	result := dashboardDataMsg{
		priorityCounts: make(map[models.Priority]int),
		statusCounts:   make(map[models.TaskStatus]int),
	}

	if TaskMgr == nil {
		result.err = fmt.Errorf("task manager not initialized")
		return result
	}

	tasks, err := TaskMgr.ListTasks(core.TaskFilter{IncludeDone: true})
	if err != nil {
		result.err = fmt.Errorf("loading tasks: %w", err)
		return result
	}
	for _, t := range tasks {
		result.statusCounts[t.Status]++
		if t.Status == models.StatusDone {
			continue
		}
		result.priorityCounts[t.Priority]++
		if t.Status == models.StatusStarted && len(result.startedTitles) < 3 {
			result.startedTitles = append(result.startedTitles, t.Title)
		}
	}

	if BacklogMgr != nil {
		if n, err := BacklogMgr.Count(); err == nil {
			result.backlogItems = n
		}
	}

	if AlertEngine != nil {
		alerts := AlertEngine.Evaluate(observability.AlertSnapshot{
			Tasks:        tasks,
			BacklogItems: result.backlogItems,
			Now:          time.Now(),
		})

		// Sort alerts by severity: high first, then medium, then low.
		sort.Slice(alerts, func(i, j int) bool {
			return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
		})

		result.alerts = make([]alertRow, 0, len(alerts))
		for _, a := range alerts {
			result.alerts = append(result.alerts, alertRow{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for tasks and alerts",
	Long: `Launch an interactive terminal dashboard showing priority and status
distributions alongside active alerts.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
