package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// profilesModel is the login and account surface: pick a profile (PIN
// checked here, the reducer just selects), create profiles within the plan
// quota, delete, log out, and post to the announcement feed. Theme and plan
// tier live here too.
type profilesModel struct {
	width  int
	height int
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "pin", "new", "announce"

	formName    *string
	formPIN     *string
	formContent *string

	pendingID string // profile awaiting PIN confirmation
}

func newProfilesModel() profilesModel {
	name, pin, content := "", "", ""
	return profilesModel{
		formName:    &name,
		formPIN:     &pin,
		formContent: &content,
	}
}

func (m *profilesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m profilesModel) update(msg tea.Msg, s *state.State) (profilesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg, s)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.cursor >= len(s.Profiles) {
		m.cursor = max(0, len(s.Profiles)-1)
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(s.Profiles)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Enter):
		if m.cursor < len(s.Profiles) {
			return m.showPINForm(s.Profiles[m.cursor])
		}
	case key.Matches(keyMsg, keys.New):
		if len(s.Profiles) >= s.Plan.ProfileQuota() {
			return m, errStatus("Profile quota reached (%d on the %s plan)",
				s.Plan.ProfileQuota(), s.Plan)
		}
		return m.showNewForm()
	case key.Matches(keyMsg, keys.Delete):
		if len(s.Profiles) <= 1 {
			return m, errStatus("The last profile cannot be deleted")
		}
		if m.cursor < len(s.Profiles) {
			return m, dispatch(state.DeleteProfile{ID: s.Profiles[m.cursor].ID})
		}
	}

	switch keyMsg.String() {
	case "L":
		return m, dispatch(state.Logout{})
	case "a":
		if s.ActiveProfileID != "" {
			return m.showAnnounceForm()
		}
		return m, errStatus("Select a profile before posting")
	case "T":
		next := state.ThemeLight
		if s.Theme == state.ThemeLight {
			next = state.ThemeDark
		}
		return m, dispatch(state.SetTheme{Theme: next})
	case "P":
		return m, dispatch(state.SetPlanTier{Plan: nextPlan(s.Plan)})
	}
	return m, nil
}

func nextPlan(p state.PlanTier) state.PlanTier {
	switch p {
	case state.PlanBasic:
		return state.PlanPro
	case state.PlanPro:
		return state.PlanPremium
	default:
		return state.PlanBasic
	}
}

func (m profilesModel) showPINForm(p state.Profile) (profilesModel, tea.Cmd) {
	*m.formPIN = ""
	m.formType = "pin"
	m.pendingID = p.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("PIN for %s", p.Name)).
				EchoMode(huh.EchoModePassword).
				Value(m.formPIN),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m profilesModel) showNewForm() (profilesModel, tea.Cmd) {
	*m.formName = ""
	m.formType = "new"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Profile Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m profilesModel) showAnnounceForm() (profilesModel, tea.Cmd) {
	*m.formContent = ""
	m.formType = "announce"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Announcement").Value(m.formContent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m profilesModel) updateForm(msg tea.Msg, s *state.State) (profilesModel, tea.Cmd) {
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
	case "pin":
		for i := range s.Profiles {
			if s.Profiles[i].ID != m.pendingID {
				continue
			}
			if s.Profiles[i].PIN != *m.formPIN {
				return m, errStatus("Wrong PIN")
			}
			return m, dispatch(state.SelectProfile{ID: m.pendingID})
		}
		return m, nil
	case "new":
		if *m.formName != "" {
			return m, dispatch(state.AddProfile{Name: *m.formName, Now: time.Now()})
		}
	case "announce":
		if *m.formContent != "" {
			return m, dispatch(state.AddAnnouncement{Content: *m.formContent, Now: time.Now()})
		}
	}
	return m, nil
}

func (m profilesModel) view(s *state.State) string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Profiles")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	quota := mutedStyle.Render(fmt.Sprintf("%d/%d profiles · %s plan · %s theme",
		len(s.Profiles), s.Plan.ProfileQuota(), s.Plan, s.Theme))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Profiles"), "  ", quota)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	for i := range s.Profiles {
		p := &s.Profiles[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := "  "
		if p.ID == s.ActiveProfileID {
			marker = successStyle.Render("● ")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, p.Name))+
			fmt.Sprintf("  %s%s", marker, mutedStyle.Render(fmt.Sprintf("%d days", len(p.Days)))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(
		"  enter: select (PIN)  n: new  d: delete  L: logout  a: announce  T: theme  P: plan"))

	profilePanel := panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, profilePanel, m.renderAnnouncements(s, w))
}

func (m profilesModel) renderAnnouncements(s *state.State, w int) string {
	title := titleStyle.Render("Announcements")
	if len(s.Announcements) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Nothing posted yet.")))
	}

	var rows []string
	rows = append(rows, title)
	// The feed is append-only, so the newest posts sit at the tail.
	shown := min(len(s.Announcements), max(3, m.height-12))
	start := len(s.Announcements) - shown
	for i := len(s.Announcements) - 1; i >= start; i-- {
		a := s.Announcements[i]
		meta := mutedStyle.Render(fmt.Sprintf("%s · %s",
			a.AuthorName, a.CreatedAt.Format("Jan 02 15:04")))
		rows = append(rows, fmt.Sprintf("  %s  %s", meta, a.Content))
	}
	if start > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d earlier", start)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
