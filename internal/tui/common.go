package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/report"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewDays
	viewStopwatch
	viewData
	viewReports
	viewProfiles
)

var viewNames = []string{"Dashboard", "Days", "Stopwatch", "Data", "Reports", "Profiles"}

// --- Messages ---

// dispatchMsg carries a reducer action from a child view to the app root,
// which owns the canonical state.
type dispatchMsg struct {
	action state.Action
}

// dispatch wraps an action so a child update can return it as a command.
func dispatch(a state.Action) tea.Cmd {
	return func() tea.Msg {
		return dispatchMsg{action: a}
	}
}

type statusMsg struct {
	text    string
	isError bool
}

func status(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...)}
	}
}

func errStatus(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
	}
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type reportDoneMsg struct {
	report *report.Report
}

// --- Helpers ---

// formatClock renders seconds as MM:SS, rolling to H:MM:SS past an hour.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
