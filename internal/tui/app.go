package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/export"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/report"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/store"
)

// App is the root Bubble Tea model. It owns the canonical state document;
// every user intent flows through state.Reduce here, then the result is
// persisted fire-and-forget.
type App struct {
	store   *store.Store
	state   state.State
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	days      daysModel
	stopwatch stopwatchModel
	data      dataModel
	reports   reportsModel
	profiles  profilesModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, client *report.Client) App {
	h := help.New()
	h.ShowAll = false

	doc := s.Load(time.Now())
	applyTheme(doc.Theme)

	view := viewDashboard
	if doc.ActiveProfileID == "" {
		view = viewProfiles
	}

	return App{
		store:      s,
		state:      doc,
		activeView: view,
		dashboard:  newDashboardModel(),
		days:       newDaysModel(),
		stopwatch:  newStopwatchModel(),
		data:       newDataModel(),
		reports:    newReportsModel(client),
		profiles:   newProfilesModel(),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// apply runs one action through the reducer and persists the result.
func (a App) apply(action state.Action) App {
	a.state = state.Reduce(a.state, action)
	a.store.Save(a.state)
	if _, ok := action.(state.SetTheme); ok {
		applyTheme(a.state.Theme)
	}
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.days.setSize(a.width, contentHeight)
		a.stopwatch.setSize(a.width, contentHeight)
		a.data.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.profiles.setSize(a.width, contentHeight)
		return a, nil

	case dispatchMsg:
		a = a.apply(msg.action)
		return a, nil

	case tickMsg:
		// The reducer absorbs ticks while stopped; skipping the dispatch
		// just avoids a pointless save every second.
		if p := a.state.ActiveProfile(); p != nil && p.Stopwatch.Running {
			a = a.apply(state.Tick{Now: time.Time(msg)})
		}
		return a, tickCmd()

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		}

		// Everything else needs a selected profile.
		if a.state.ActiveProfileID == "" {
			a.activeView = viewProfiles
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewDays
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStopwatch
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewData
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewReports
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewProfiles
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 6
			return a, nil
		}

	case statusMsg:
		// Views track in-flight work (report generation) off these too,
		// so the message goes to the active view as well as the footer.
		a.status = msg.text
		return a.updateActiveView(msg)

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case reportDoneMsg:
		a.status = "Report ready"
		return a.updateActiveView(msg)
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg, &a.state)
	case viewDays:
		a.days, cmd = a.days.update(msg, &a.state)
	case viewStopwatch:
		a.stopwatch, cmd = a.stopwatch.update(msg, &a.state)
	case viewData:
		a.data, cmd = a.data.update(msg, &a.state)
	case viewReports:
		a.reports, cmd = a.reports.update(msg, &a.state)
	case viewProfiles:
		a.profiles, cmd = a.profiles.update(msg, &a.state)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewStopwatch:
		return a.stopwatch.formActive
	case viewData:
		return a.data.formActive
	case viewProfiles:
		return a.profiles.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view(&a.state)
	case viewDays:
		content = a.days.view(&a.state)
	case viewStopwatch:
		content = a.stopwatch.view(&a.state)
	case viewData:
		content = a.data.view(&a.state)
	case viewReports:
		content = a.reports.view(&a.state)
	case viewProfiles:
		content = a.profiles.view(&a.state)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("prototrack")
	if p := a.state.ActiveProfile(); p != nil {
		title += mutedStyle.Render(" · " + p.Name)
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Running stopwatch indicator in footer
	timerInfo := ""
	if p := a.state.ActiveProfile(); p != nil && p.Stopwatch.Running {
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %s · %d pcs",
			formatClock(p.Stopwatch.Seconds), p.Stopwatch.Pieces))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV (active day)", "JSON (active day)", "XLSX (all days)"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	snapshot := a.state
	return func() tea.Msg {
		p := snapshot.ActiveProfile()
		if p == nil {
			return statusMsg{text: "No profile selected", isError: true}
		}
		day := p.ActiveDay()
		if day == nil && format != 2 {
			return statusMsg{text: "No day to export", isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("prototrack-%s.csv", dateStr))
			err = export.ToCSV(day, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("prototrack-%s.json", dateStr))
			err = export.ToJSON(day, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("prototrack-%s.xlsx", dateStr))
			err = export.ToXLSX(p.Days, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
