package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// stopwatchModel is the piece-rate timer surface. The timer itself lives in
// the state document; this view only renders it and translates keys into
// actions. Ticks arrive via the app root.
type stopwatchModel struct {
	width  int
	height int

	formActive bool
	form       *huh.Form
	formType   string // "timer", "session"

	formSeconds  *string
	formOperator *string
	formFunction *string
	formAux      *string
}

func newStopwatchModel() stopwatchModel {
	seconds, operator, function, aux := "", "", "", ""
	return stopwatchModel{
		formSeconds:  &seconds,
		formOperator: &operator,
		formFunction: &function,
		formAux:      &aux,
	}
}

func (m *stopwatchModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m stopwatchModel) update(msg tea.Msg, s *state.State) (stopwatchModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	p := s.ActiveProfile()
	if p == nil {
		return m, nil
	}
	sw := &p.Stopwatch

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Start):
		return m, dispatch(state.StartTimer{})
	case key.Matches(keyMsg, keys.Stop):
		return m, dispatch(state.StopTimer{Now: time.Now()})
	case key.Matches(keyMsg, keys.Piece):
		return m, dispatch(state.AddPiece{Amount: 1})
	case key.Matches(keyMsg, keys.Undo):
		return m, dispatch(state.UndoPiece{})
	case key.Matches(keyMsg, keys.Reset):
		return m, dispatch(state.ResetTimer{})
	case key.Matches(keyMsg, keys.Mode):
		next := state.ModeCountup
		if sw.Mode == state.ModeCountup {
			next = state.ModeCountdown
		}
		return m, dispatch(state.SetStopwatchMode{Mode: next})
	}

	switch keyMsg.String() {
	case "t":
		return m.showTimerForm(sw)
	case "o":
		return m.showSessionForm(p)
	}
	return m, nil
}

func (m stopwatchModel) showTimerForm(sw *state.Stopwatch) (stopwatchModel, tea.Cmd) {
	if sw.Running {
		return m, errStatus("Stop the timer before changing its duration")
	}
	*m.formSeconds = strconv.Itoa(sw.InitialSeconds)
	m.formType = "timer"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Countdown Seconds").Value(m.formSeconds),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m stopwatchModel) showSessionForm(p *state.Profile) (stopwatchModel, tea.Cmd) {
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, item := range p.MasterWorkers {
		options = append(options, huh.NewOption(item.Name, item.Name))
	}

	*m.formOperator = p.Stopwatch.Session.Operator
	*m.formFunction = p.Stopwatch.Session.FunctionLabel
	*m.formAux = strconv.FormatFloat(p.Stopwatch.Session.AuxiliaryPercent, 'f', -1, 64)
	m.formType = "session"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Operator").Options(options...).Value(m.formOperator),
			huh.NewInput().Title("Function").Value(m.formFunction),
			huh.NewInput().Title("Auxiliary Time %").Value(m.formAux),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m stopwatchModel) updateForm(msg tea.Msg) (stopwatchModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}
	m.formActive = false

	switch m.formType {
	case "timer":
		secs, err := strconv.Atoi(*m.formSeconds)
		if err != nil || secs <= 0 {
			return m, errStatus("Duration must be a positive number of seconds")
		}
		return m, dispatch(state.SetTimer{Seconds: secs})
	case "session":
		aux, _ := strconv.ParseFloat(*m.formAux, 64)
		return m, dispatch(state.SetSession{
			Operator:         *m.formOperator,
			FunctionLabel:    *m.formFunction,
			AuxiliaryPercent: aux,
		})
	}
	return m, nil
}

func (m stopwatchModel) view(s *state.State) string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Stopwatch Setup")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	p := s.ActiveProfile()
	if p == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No profile selected."))
	}
	sw := &p.Stopwatch

	modeLabel := "COUNTDOWN"
	if sw.Mode == state.ModeCountup {
		modeLabel = "COUNTUP"
	}

	var timeDisplay, indicator string
	if sw.Running {
		timeDisplay = timerRunningStyle.Width(w - 6).Render(formatClock(sw.Seconds))
		indicator = successStyle.Render("●  RUNNING  " + modeLabel)
	} else {
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(sw.Seconds))
		indicator = mutedStyle.Render("■  STOPPED  " + modeLabel)
	}

	pieces := accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).
		Render(fmt.Sprintf("%d pieces", sw.Pieces))

	sessionLine := mutedStyle.Render("No session set. Press o to pick operator and function.")
	if sw.Session.Operator != "" || sw.Session.FunctionLabel != "" {
		sessionLine = highlightStyle.Render(sw.Session.Operator)
		if sw.Session.FunctionLabel != "" {
			sessionLine += mutedStyle.Render(" / " + sw.Session.FunctionLabel)
		}
		if sw.Session.AuxiliaryPercent > 0 {
			sessionLine += mutedStyle.Render(fmt.Sprintf("  aux %.0f%%", sw.Session.AuxiliaryPercent))
		}
	}

	controls := mutedStyle.Render(
		"s: start  x: stop  space: piece  u: undo  r: reset  m: mode  t: duration  o: session")

	timerPanel := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay, indicator, pieces, "", sessionLine, "", controls))

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, m.renderHistory(sw, w))
}

func (m stopwatchModel) renderHistory(sw *state.Stopwatch, w int) string {
	title := titleStyle.Render("Session History")

	recent := sw.RecentHistory()
	if len(recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No sessions logged yet.")))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-14s %-16s %8s %6s %9s %9s", "Worker", "Function", "Time", "Pcs", "Rate/h", "Adj/h")))

	shown := min(len(recent), max(3, m.height-14))
	for _, rec := range recent[:shown] {
		rows = append(rows, fmt.Sprintf("  %-14s %-16s %8s %6d %9.1f %9.1f",
			rec.WorkerName, rec.FunctionLabel, formatClock(rec.ActualSeconds),
			rec.Pieces, rec.RawRate, rec.AdjustedRate))
	}
	if shown < len(recent) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(recent)-shown)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
