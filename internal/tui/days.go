package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// daysModel lists the active profile's days, newest last, and drives the
// calendar operations: add the next day, clone any day onto today, delete,
// and select the day the rest of the app works on.
type daysModel struct {
	width  int
	height int
	cursor int
}

func newDaysModel() daysModel {
	return daysModel{}
}

func (d *daysModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d daysModel) update(msg tea.Msg, s *state.State) (daysModel, tea.Cmd) {
	p := s.ActiveProfile()
	if p == nil {
		return d, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if d.cursor >= len(p.Days) {
		d.cursor = max(0, len(p.Days)-1)
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if d.cursor < len(p.Days)-1 {
			d.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		return d, dispatch(state.AddDay{Now: time.Now()})
	case key.Matches(keyMsg, keys.Clone):
		if d.cursor < len(p.Days) {
			return d, dispatch(state.CloneDay{SourceDayID: p.Days[d.cursor].ID, Now: time.Now()})
		}
	case key.Matches(keyMsg, keys.Delete):
		if d.cursor < len(p.Days) {
			return d, dispatch(state.DeleteDay{ID: p.Days[d.cursor].ID})
		}
	case key.Matches(keyMsg, keys.Enter):
		if d.cursor < len(p.Days) {
			return d, dispatch(state.SelectDay{ID: p.Days[d.cursor].ID})
		}
	}
	return d, nil
}

func (d daysModel) view(s *state.State) string {
	w := d.width - 4
	title := titleStyle.Render("Days")

	p := s.ActiveProfile()
	if p == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No profile selected."))
	}

	if len(p.Days) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No days yet. Press n to start today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-14s %10s %10s %10s", "Date", "Functions", "Pieces", "Stopped")))

	for i := range p.Days {
		day := &p.Days[i]
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := " "
		if day.ID == p.ActiveDayID {
			marker = successStyle.Render("●")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-13s", cursor, day.ID))+
			fmt.Sprintf("%s %9d %10d %10d",
				marker, len(day.Functions), day.TotalPieces(), day.TotalMinutesStopped()))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: next day  c: clone to today  d: delete  enter: select"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
