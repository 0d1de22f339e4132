package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrx/keyrx-tray/internal/app"
	"github.com/keyrx/keyrx-tray/internal/buildinfo"
	"github.com/keyrx/keyrx-tray/internal/prefs"
	"github.com/keyrx/keyrx-tray/internal/state"
)

type snapshotMsg struct{ snap state.Snapshot }

type outcomeMsg struct{ outcome app.Outcome }

type prefsMsg struct{ prefs prefs.Prefs }

// Model is the bubbletea model of the terminal view.
type Model struct {
	snap    state.Snapshot
	cursor  int
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme
	styles  Styles
	width   int

	events  chan<- app.Event
	outcome *app.Outcome

	notifications bool
	// onTheme persists a theme chosen with the cycle key.
	onTheme func(name string)
}

// NewModel returns a model that sends user intents to events.
func NewModel(events chan<- app.Event, p prefs.Prefs) Model {
	theme := GetTheme(p.Theme)
	return Model{
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:         theme,
		styles:        theme.Styles(),
		events:        events,
		notifications: p.Notifications,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		m.clampCursor()
		return m, nil

	case outcomeMsg:
		o := msg.outcome
		m.outcome = &o
		return m, nil

	case prefsMsg:
		m.applyTheme(msg.prefs.Theme)
		m.notifications = msg.prefs.Notifications
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		select {
		case m.events <- app.QuitRequested{}:
		default:
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if !m.snap.HasStatus || m.snap.TogglePending {
			return m, nil
		}
		return m, m.emit(app.ToggleRequested{Enabled: !m.snap.RemappingEnabled})

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Profiles)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		if m.snap.PendingProfile != "" || m.cursor >= len(m.snap.Profiles) {
			return m, nil
		}
		return m, m.emit(app.ProfileSelected{Name: m.snap.Profiles[m.cursor].Name})

	case key.Matches(msg, m.keys.Refresh):
		return m, m.emit(app.RefreshProfilesRequested{})

	case key.Matches(msg, m.keys.OpenWebUI):
		return m, m.emit(app.OpenWebUIRequested{})

	case key.Matches(msg, m.keys.Settings):
		return m, m.emit(app.SettingsRequested{})

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(NextTheme(m.theme.Name))
		if m.onTheme != nil {
			name, persist := m.theme.Name, m.onTheme
			return m, func() tea.Msg {
				persist(name)
				return nil
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// emit returns a command that hands ev to the engine.
func (m Model) emit(ev app.Event) tea.Cmd {
	events := m.events
	return func() tea.Msg {
		events <- ev
		return nil
	}
}

func (m *Model) applyTheme(name string) {
	m.theme = GetTheme(name)
	m.styles = m.theme.Styles()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snap.Profiles) {
		m.cursor = len(m.snap.Profiles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("KeyRx"))
	b.WriteString(s.Muted.Render(" tray " + buildinfo.Version))
	b.WriteString("\n\n")

	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.remappingView())
	b.WriteString("\n\n")
	b.WriteString(s.Panel.Render(m.profilesView()))
	b.WriteString("\n")

	if m.outcome != nil && m.notifications {
		style := s.Success
		if m.outcome.Failed() {
			style = s.Danger
		}
		b.WriteString(style.Render(m.outcome.Message()))
		b.WriteString("\n")
	}

	b.WriteString(s.StatusBar.Render(m.footer()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusView() string {
	s := m.styles
	switch {
	case m.snap.Reachable:
		name := "Unknown"
		if m.snap.HasProfile {
			name = m.snap.ProfileName
		}
		return s.Text.Render("Profile: ") + s.Accent.Render(name)
	case m.snap.LastChecked.IsZero():
		return m.spinner.View() + " " + s.Muted.Render("Status: Checking...")
	default:
		return s.Danger.Render("Status: Daemon not running")
	}
}

func (m Model) remappingView() string {
	s := m.styles
	label := s.Warning.Render("off")
	if m.snap.RemappingEnabled {
		label = s.Success.Render("on")
	}
	line := s.Text.Render("Remapping: ") + label
	if m.snap.TogglePending {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) profilesView() string {
	s := m.styles
	if len(m.snap.Profiles) == 0 {
		return s.Muted.Render("No profiles available")
	}
	lines := make([]string, 0, len(m.snap.Profiles))
	for i, p := range m.snap.Profiles {
		mark := "  "
		if p.Active {
			mark = "● "
		}
		text := mark + p.Name
		if p.Name == m.snap.PendingProfile {
			text += " " + m.spinner.View()
		}
		if i == m.cursor {
			lines = append(lines, s.Selected.Render(text))
		} else {
			lines = append(lines, s.Text.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) footer() string {
	if m.snap.LastChecked.IsZero() {
		return "waiting for first poll"
	}
	parts := []string{"checked " + m.snap.LastChecked.Format(time.Kitchen)}
	if m.snap.Version != "" {
		parts = append(parts, "daemon "+m.snap.Version)
	}
	if m.snap.ProfilesStale && m.snap.Reachable {
		parts = append(parts, "profiles refreshing")
	}
	if n := m.snap.ConsecutiveFailures; n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed polls", n))
	}
	return strings.Join(parts, " · ")
}
