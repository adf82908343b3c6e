package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/report"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

var reportKinds = []report.Kind{
	report.KindDaily,
	report.KindWeekly,
	report.KindMonthly,
	report.KindConsolidated,
}

// reportsModel charts the active day per hour and drives generative report
// requests. The request runs as a command so reducer dispatches are never
// blocked behind network I/O.
type reportsModel struct {
	client *report.Client
	width  int
	height int

	kindIdx    int
	generating bool
	generated  *report.Report

	chart barchart.Model
}

func newReportsModel(client *report.Client) reportsModel {
	return reportsModel{
		client: client,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) kind() report.Kind {
	return reportKinds[r.kindIdx]
}

// dateWindow derives the request window from the active day.
func (r reportsModel) dateWindow(p *state.Profile) (string, string) {
	end := p.ActiveDayID
	if end == "" {
		end = time.Now().Format(state.DayLayout)
	}
	endDate, err := time.Parse(state.DayLayout, end)
	if err != nil {
		endDate = time.Now()
		end = endDate.Format(state.DayLayout)
	}

	switch r.kind() {
	case report.KindWeekly:
		return endDate.AddDate(0, 0, -6).Format(state.DayLayout), end
	case report.KindMonthly:
		return endDate.AddDate(0, -1, 1).Format(state.DayLayout), end
	case report.KindConsolidated:
		if len(p.Days) > 0 {
			return p.Days[0].ID, end
		}
		return end, end
	default:
		return end, end
	}
}

func (r reportsModel) update(msg tea.Msg, s *state.State) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDoneMsg:
		r.generating = false
		r.generated = msg.report
		return r, nil

	case statusMsg:
		if msg.isError {
			r.generating = false
		}
		return r, nil

	case tea.KeyMsg:
		p := s.ActiveProfile()
		if p == nil {
			return r, nil
		}

		switch {
		case key.Matches(msg, keys.Left):
			if r.kindIdx > 0 {
				r.kindIdx--
			}
			return r, nil
		case key.Matches(msg, keys.Right):
			if r.kindIdx < len(reportKinds)-1 {
				r.kindIdx++
			}
			return r, nil
		case key.Matches(msg, keys.Report):
			return r.generate(p)
		case key.Matches(msg, keys.Back):
			r.generated = nil
			return r, nil
		}
	}
	return r, nil
}

func (r reportsModel) generate(p *state.Profile) (reportsModel, tea.Cmd) {
	if r.client == nil {
		return r, errStatus("Report service not configured (set PROTOTRACK_REPORT_URL)")
	}
	if r.generating {
		return r, nil
	}
	r.generating = true

	start, end := r.dateWindow(p)
	req := report.Snapshot(p, r.kind(), start, end)

	return r, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		rep, err := r.client.Generate(ctx, req)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Report error: %v", err), isError: true}
		}
		return reportDoneMsg{report: rep}
	}
}

func (r *reportsModel) buildChart(day *state.Day) {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	if day == nil {
		return
	}

	// One bar per hour, stacked by function.
	functionStyles := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorPrimary),
		lipgloss.NewStyle().Foreground(colorSuccess),
		lipgloss.NewStyle().Foreground(colorAccent),
		lipgloss.NewStyle().Foreground(colorHighlight),
		lipgloss.NewStyle().Foreground(colorWarning),
	}

	hours := map[string]bool{}
	for i := range day.Functions {
		for _, h := range day.Functions[i].Hours {
			hours[h] = true
		}
	}
	var labels []string
	for h := range hours {
		labels = append(labels, h)
	}
	sort.Strings(labels)

	var bars []barchart.BarData
	for _, hour := range labels {
		var values []barchart.BarValue
		for i := range day.Functions {
			f := &day.Functions[i]
			total := f.HourTotals()[hour]
			if total == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  f.Name,
				Value: float64(total),
				Style: functionStyles[i%len(functionStyles)],
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{Label: hour, Values: values})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view(s *state.State) string {
	w := r.width - 4

	p := s.ActiveProfile()
	if p == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No profile selected."))
	}

	if r.generated != nil {
		return r.renderReport(w)
	}

	var kindTabs []string
	for i, k := range reportKinds {
		if i == r.kindIdx {
			kindTabs = append(kindTabs, activeTabStyle.Render(string(k)))
		} else {
			kindTabs = append(kindTabs, inactiveTabStyle.Render(string(k)))
		}
	}
	start, end := r.dateWindow(p)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, kindTabs...), "  ",
		mutedStyle.Render(start+" — "+end),
	)

	day := p.ActiveDay()
	rc := r
	rc.buildChart(day)
	chartView := rc.chart.View()

	legend := r.renderLegend(day)

	status := mutedStyle.Render("  ←/→: report kind  g: generate  E: export")
	if r.generating {
		status = warningStyle.Render("  Generating report…")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", chartView, "", legend, "", status),
	)
}

func (r reportsModel) renderLegend(day *state.Day) string {
	if day == nil {
		return mutedStyle.Render("  No active day")
	}
	functionStyles := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorPrimary),
		lipgloss.NewStyle().Foreground(colorSuccess),
		lipgloss.NewStyle().Foreground(colorAccent),
		lipgloss.NewStyle().Foreground(colorHighlight),
		lipgloss.NewStyle().Foreground(colorWarning),
	}
	var items []string
	for i := range day.Functions {
		f := &day.Functions[i]
		dot := functionStyles[i%len(functionStyles)].Render("●")
		items = append(items, fmt.Sprintf("%s %s (%d)", dot, f.Name, f.TotalPieces()))
	}
	if len(items) == 0 {
		return mutedStyle.Render("  No functions on the active day")
	}
	return "  " + strings.Join(items, "  ")
}

func (r reportsModel) renderReport(w int) string {
	rep := r.generated

	var rows []string
	rows = append(rows, titleStyle.Render(rep.Title))
	rows = append(rows, "")
	rows = append(rows, rep.Summary)
	for _, section := range rep.Sections {
		rows = append(rows, "")
		rows = append(rows, highlightStyle.Bold(true).Render(section.Name))
		rows = append(rows, section.Markdown)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  esc: back to chart"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
