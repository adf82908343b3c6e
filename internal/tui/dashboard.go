package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// dashboardModel shows the active day's production grid and edits it:
// functions, their workers and hours, per-cell pieces and observations,
// and the daily goal.
type dashboardModel struct {
	width  int
	height int

	cursor int // function index within the active day

	formActive bool
	form       *huh.Form
	formType   string // "function", "rename", "worker", "del_worker", "del_hour", "cell", "goal"

	// Form field pointers (survive value copies)
	formName    *string
	formWorker  *string
	formHour    *string
	formPieces  *string
	formReason  *string
	formDetail  *string
	formMinutes *string
	formTarget  *string

	editFunctionID string
}

func newDashboardModel() dashboardModel {
	name, worker, hour := "", "", ""
	pieces, reason, detail, minutes, target := "", "", "", "", ""
	return dashboardModel{
		formName:    &name,
		formWorker:  &worker,
		formHour:    &hour,
		formPieces:  &pieces,
		formReason:  &reason,
		formDetail:  &detail,
		formMinutes: &minutes,
		formTarget:  &target,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) update(msg tea.Msg, s *state.State) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg, s)
	}

	p := s.ActiveProfile()
	if p == nil {
		return d, nil
	}
	day := p.ActiveDay()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if day != nil && d.cursor >= len(day.Functions) {
		d.cursor = max(0, len(day.Functions)-1)
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if day != nil && d.cursor < len(day.Functions)-1 {
			d.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		return d.showFunctionForm("function", "")
	case key.Matches(keyMsg, keys.Edit):
		if f := d.selected(day); f != nil {
			return d.showFunctionForm("rename", f.Name)
		}
	case key.Matches(keyMsg, keys.Delete):
		if f := d.selected(day); f != nil {
			return d, dispatch(state.DeleteFunction{DayID: day.ID, FunctionID: f.ID})
		}
	case key.Matches(keyMsg, keys.Enter):
		if f := d.selected(day); f != nil {
			return d.showCellForm(p, f)
		}
	}

	switch keyMsg.String() {
	case "w":
		if f := d.selected(day); f != nil {
			return d.showWorkerForm(p, f)
		}
	case "W":
		if f := d.selected(day); f != nil && len(f.Workers) > 0 {
			return d.showDeleteWorkerForm(f)
		}
	case "+":
		if f := d.selected(day); f != nil {
			return d, dispatch(state.AddHourToFunction{DayID: day.ID, FunctionID: f.ID})
		}
	case "-":
		if f := d.selected(day); f != nil && len(f.Hours) > 0 {
			return d.showDeleteHourForm(f)
		}
	case "G":
		return d.showGoalForm(p, day)
	}

	return d, nil
}

func (d dashboardModel) selected(day *state.Day) *state.FunctionEntry {
	if day == nil || d.cursor >= len(day.Functions) {
		return nil
	}
	return &day.Functions[d.cursor]
}

func (d dashboardModel) showFunctionForm(formType, initial string) (dashboardModel, tea.Cmd) {
	*d.formName = initial
	d.formType = formType

	title := "Function Name"
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(d.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showWorkerForm(p *state.Profile, f *state.FunctionEntry) (dashboardModel, tea.Cmd) {
	present := make(map[string]bool, len(f.Workers))
	for _, w := range f.Workers {
		present[w] = true
	}
	var options []huh.Option[string]
	for _, item := range p.MasterWorkers {
		if !present[item.Name] {
			options = append(options, huh.NewOption(item.Name, item.Name))
		}
	}
	if len(options) == 0 {
		return d, errStatus("All registered workers are already on %s", f.Name)
	}

	*d.formWorker = options[0].Value
	d.formType = "worker"
	d.editFunctionID = f.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Worker").Options(options...).Value(d.formWorker),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showDeleteWorkerForm(f *state.FunctionEntry) (dashboardModel, tea.Cmd) {
	options := make([]huh.Option[string], len(f.Workers))
	for i, w := range f.Workers {
		options[i] = huh.NewOption(w, w)
	}
	*d.formWorker = f.Workers[0]
	d.formType = "del_worker"
	d.editFunctionID = f.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Remove Worker").Options(options...).Value(d.formWorker),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showDeleteHourForm(f *state.FunctionEntry) (dashboardModel, tea.Cmd) {
	options := make([]huh.Option[string], len(f.Hours))
	for i, h := range f.Hours {
		options[i] = huh.NewOption(h, h)
	}
	*d.formHour = f.Hours[0]
	d.formType = "del_hour"
	d.editFunctionID = f.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Remove Hour").Options(options...).Value(d.formHour),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showCellForm(p *state.Profile, f *state.FunctionEntry) (dashboardModel, tea.Cmd) {
	if len(f.Workers) == 0 || len(f.Hours) == 0 {
		return d, errStatus("%s has no workers or hours yet", f.Name)
	}

	workerOptions := make([]huh.Option[string], len(f.Workers))
	for i, w := range f.Workers {
		workerOptions[i] = huh.NewOption(w, w)
	}
	hourOptions := make([]huh.Option[string], len(f.Hours))
	for i, h := range f.Hours {
		hourOptions[i] = huh.NewOption(h, h)
	}
	reasonOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, item := range p.MasterStopReasons {
		reasonOptions = append(reasonOptions, huh.NewOption(item.Name, item.Name))
	}

	*d.formWorker = f.Workers[0]
	*d.formHour = f.Hours[0]
	*d.formPieces = ""
	*d.formReason = ""
	*d.formDetail = ""
	*d.formMinutes = ""
	d.formType = "cell"
	d.editFunctionID = f.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Worker").Options(workerOptions...).Value(d.formWorker),
			huh.NewSelect[string]().Title("Hour").Options(hourOptions...).Value(d.formHour),
			huh.NewInput().Title("Pieces").Value(d.formPieces),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Stop Reason").Options(reasonOptions...).Value(d.formReason),
			huh.NewInput().Title("Detail").Value(d.formDetail),
			huh.NewInput().Title("Minutes Stopped").Value(d.formMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showGoalForm(p *state.Profile, day *state.Day) (dashboardModel, tea.Cmd) {
	*d.formTarget = strconv.Itoa(p.Goal.TargetPieces)
	*d.formName = p.Goal.FunctionID
	d.formType = "goal"

	options := []huh.Option[string]{huh.NewOption("(whole day)", "")}
	if day != nil {
		for i := range day.Functions {
			f := &day.Functions[i]
			options = append(options, huh.NewOption(f.Name, f.ID))
		}
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Target Pieces").Value(d.formTarget),
			huh.NewSelect[string]().Title("Track Function").Options(options...).Value(d.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg, s *state.State) (dashboardModel, tea.Cmd) {
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

	p := s.ActiveProfile()
	if p == nil {
		return d, nil
	}
	day := p.ActiveDay()
	if day == nil {
		return d, nil
	}

	switch d.formType {
	case "function":
		if *d.formName != "" {
			return d, dispatch(state.AddFunction{DayID: day.ID, Name: *d.formName})
		}
	case "rename":
		if f := d.selected(day); f != nil && *d.formName != "" {
			return d, dispatch(state.RenameFunction{DayID: day.ID, FunctionID: f.ID, Name: *d.formName})
		}
	case "worker":
		return d, dispatch(state.AddWorkerToFunction{
			DayID: day.ID, FunctionID: d.editFunctionID, Worker: *d.formWorker,
		})
	case "del_worker":
		return d, dispatch(state.DeleteWorkerFromFunction{
			DayID: day.ID, FunctionID: d.editFunctionID, Worker: *d.formWorker,
		})
	case "del_hour":
		return d, dispatch(state.DeleteHourFromFunction{
			DayID: day.ID, FunctionID: d.editFunctionID, Hour: *d.formHour,
		})
	case "cell":
		minutes, _ := strconv.Atoi(*d.formMinutes)
		return d, tea.Batch(
			dispatch(state.UpdatePieces{
				DayID: day.ID, FunctionID: d.editFunctionID,
				Worker: *d.formWorker, Hour: *d.formHour, Value: *d.formPieces,
			}),
			dispatch(state.UpdateObservation{
				DayID: day.ID, FunctionID: d.editFunctionID,
				Worker: *d.formWorker, Hour: *d.formHour,
				Reason: *d.formReason, Detail: *d.formDetail, MinutesStopped: minutes,
			}),
		)
	case "goal":
		target, err := strconv.Atoi(*d.formTarget)
		if err != nil || target < 0 {
			return d, errStatus("Target must be a number")
		}
		return d, dispatch(state.SetDailyGoal{TargetPieces: target, FunctionID: *d.formName})
	}
	return d, nil
}

func (d dashboardModel) view(s *state.State) string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Edit")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	p := s.ActiveProfile()
	if p == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No profile selected. Press 6 for Profiles."))
	}
	day := p.ActiveDay()
	if day == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No day yet. Press 2 for Days."))
	}

	goalPanel := d.renderGoalPanel(p, day, w)
	gridPanel := d.renderGridPanel(day, w)
	return lipgloss.JoinVertical(lipgloss.Left, goalPanel, gridPanel)
}

func (d dashboardModel) renderGoalPanel(p *state.Profile, day *state.Day, w int) string {
	title := titleStyle.Render(day.ID)
	total := highlightStyle.Render(fmt.Sprintf("%d pieces", day.TotalPieces()))
	stopped := ""
	if m := day.TotalMinutesStopped(); m > 0 {
		stopped = warningStyle.Render(fmt.Sprintf("  %d min stopped", m))
	}
	header := fmt.Sprintf("%s  %s%s", title, total, stopped)

	goalLine := mutedStyle.Render("No goal linked to a function. Press G to set one.")
	if current, target, ok := p.GoalProgress(); ok {
		barWidth := min(w-20, 40)
		filled := 0
		if target > 0 {
			filled = min(barWidth, current*barWidth/target)
		}
		bar := successStyle.Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		goalLine = fmt.Sprintf("Goal %s %d/%d", bar, current, target)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, goalLine))
}

func (d dashboardModel) renderGridPanel(day *state.Day, w int) string {
	title := titleStyle.Render("Functions")

	if len(day.Functions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No functions yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-24s %8s %8s %8s %-16s", "Name", "Pieces", "Workers", "Stopped", "Top Worker")))

	for i := range day.Functions {
		f := &day.Functions[i]
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		top, topPieces := f.TopWorker()
		topLabel := "-"
		if top != "" {
			topLabel = fmt.Sprintf("%s (%d)", top, topPieces)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %8d %8d %8d %-16s",
			cursor, f.Name, f.TotalPieces(), len(f.Workers), f.TotalMinutesStopped(), topLabel)))
	}

	if f := d.selected(day); f != nil {
		rows = append(rows, "")
		rows = append(rows, d.renderHourStrip(f, w))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(
		"  n: new  e: rename  d: delete  enter: record cell  w/W: workers  +/-: hours  G: goal"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderHourStrip(f *state.FunctionEntry, w int) string {
	totals := f.HourTotals()
	// Drop whole cells once the strip runs out of room; slicing the styled
	// string would cut escape sequences mid-way.
	line := " "
	for _, h := range f.Hours {
		cell := fmt.Sprintf("  %s %s",
			mutedStyle.Render(h), highlightStyle.Render(strconv.Itoa(totals[h])))
		if lipgloss.Width(line)+lipgloss.Width(cell) > w-6 {
			line += "  " + mutedStyle.Render("…")
			break
		}
		line += cell
	}
	return line
}
