package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// dataModel manages the profile's master lists: registered workers and stop
// reasons. Renaming here cascades through every grid and the stopwatch
// history via the reducer.
type dataModel struct {
	width  int
	height int

	kind   state.MasterDataKind
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit"

	formName *string
	editID   string
}

func newDataModel() dataModel {
	name := ""
	return dataModel{
		kind:     state.MasterWorkers,
		formName: &name,
	}
}

func (d *dataModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dataModel) list(p *state.Profile) []state.MasterDataItem {
	if d.kind == state.MasterStopReasons {
		return p.MasterStopReasons
	}
	return p.MasterWorkers
}

func (d dataModel) update(msg tea.Msg, s *state.State) (dataModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	p := s.ActiveProfile()
	if p == nil {
		return d, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	items := d.list(p)
	if d.cursor >= len(items) {
		d.cursor = max(0, len(items)-1)
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if d.cursor < len(items)-1 {
			d.cursor++
		}
	case key.Matches(keyMsg, keys.Left), key.Matches(keyMsg, keys.Right), key.Matches(keyMsg, keys.Tab):
		if d.kind == state.MasterWorkers {
			d.kind = state.MasterStopReasons
		} else {
			d.kind = state.MasterWorkers
		}
		d.cursor = 0
	case key.Matches(keyMsg, keys.New):
		return d.showForm("add", "")
	case key.Matches(keyMsg, keys.Edit):
		if d.cursor < len(items) {
			d.editID = items[d.cursor].ID
			return d.showForm("edit", items[d.cursor].Name)
		}
	case key.Matches(keyMsg, keys.Delete):
		if d.cursor < len(items) {
			return d, dispatch(state.DeleteMasterData{Kind: d.kind, ID: items[d.cursor].ID})
		}
	}
	return d, nil
}

func (d dataModel) showForm(formType, initial string) (dataModel, tea.Cmd) {
	*d.formName = initial
	d.formType = formType

	title := "Worker Name"
	if d.kind == state.MasterStopReasons {
		title = "Stop Reason"
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(d.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dataModel) updateForm(msg tea.Msg) (dataModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State != huh.StateCompleted {
		return d, cmd
	}
	d.formActive = false

	if *d.formName == "" {
		return d, nil
	}
	switch d.formType {
	case "add":
		return d, dispatch(state.AddMasterData{Kind: d.kind, Name: *d.formName})
	case "edit":
		return d, dispatch(state.EditMasterData{Kind: d.kind, ID: d.editID, NewName: *d.formName})
	}
	return d, nil
}

func (d dataModel) view(s *state.State) string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Master Data")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	p := s.ActiveProfile()
	if p == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No profile selected."))
	}

	workersTab := inactiveTabStyle.Render("Workers")
	reasonsTab := inactiveTabStyle.Render("Stop Reasons")
	if d.kind == state.MasterWorkers {
		workersTab = activeTabStyle.Render("Workers")
	} else {
		reasonsTab = activeTabStyle.Render("Stop Reasons")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Master Data"), "  ", workersTab, reasonsTab)

	items := d.list(p)
	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("  Empty. Press n to add."))
	}
	for i, item := range items {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, item.Name)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: switch list  n: add  e: rename  d: delete"))
	rows = append(rows, mutedStyle.Render("  Renames cascade through every day's grid and the timer history."))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
