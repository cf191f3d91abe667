package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

const historySize = 12

type historyEntry struct {
	err  error
	text string
}

type modelState int

const (
	stateSelectStep modelState = iota
	stateInputScript
)

type interactiveModel struct {
	session  *session
	history  []historyEntry
	script   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(s *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = defaultScript
	ti.Prompt = "script: "
	ti.Width = 60
	return &interactiveModel{
		session: s,
		script:  ti,
		state:   stateSelectStep,
	}
}

type stepResultMsg struct {
	err   error
	lines []string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateInputScript {
			return m.updateScript(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			_ = m.session.close()
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(steps)-1 {
				m.selected++
			}

		case "enter":
			return m, m.runScript(steps[m.selected].name)

		case ":":
			m.state = stateInputScript
			m.script.Focus()
			return m, textinput.Blink
		}

	case stepResultMsg:
		for _, line := range msg.lines {
			m.record(historyEntry{text: line})
		}
		if msg.err != nil {
			m.record(historyEntry{err: msg.err})
		}
	}

	return m, nil
}

func (m *interactiveModel) updateScript(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		_ = m.session.close()
		return m, tea.Quit

	case "esc":
		m.state = stateSelectStep
		m.script.Blur()
		return m, nil

	case "enter":
		script := m.script.Value()
		if script == "" {
			script = defaultScript
		}
		m.script.SetValue("")
		m.script.Blur()
		m.state = stateSelectStep
		return m, m.runScript(script)
	}

	var cmd tea.Cmd
	m.script, cmd = m.script.Update(msg)
	return m, cmd
}

// runScript returns a command that runs script against the session. Steps
// may block in wait, so they run off the update loop.
func (m *interactiveModel) runScript(script string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		lines, err := s.run(script)
		return stepResultMsg{lines: lines, err: err}
	}
}

func (m *interactiveModel) record(e historyEntry) {
	m.history = append(m.history, e)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("COM Handle Inspector"))
	b.WriteString(" ")
	b.WriteString(m.session.stats())
	b.WriteString("\n\n")

	var menu strings.Builder
	for i, st := range steps {
		line := fmt.Sprintf("%-12s %s", st.name, st.help)
		if i == m.selected {
			menu.WriteString(selectedStyle.Render("> " + line))
		} else {
			menu.WriteString("  " + stepStyle.Render(st.name) + strings.TrimPrefix(line, st.name))
		}
		menu.WriteString("\n")
	}

	var held strings.Builder
	held.WriteString("Handles held:\n")
	handles := m.session.handles()
	if len(handles) == 0 {
		held.WriteString(helpStyle.Render("  none"))
		held.WriteString("\n")
	}
	for _, h := range handles {
		held.WriteString("  " + handleStyle.Render(h) + "\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.TrimRight(menu.String(), "\n")),
		panelStyle.Render(strings.TrimRight(held.String(), "\n")),
	))
	b.WriteString("\n\n")

	for _, e := range m.history {
		if e.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		} else {
			b.WriteString(resultStyle.Render(e.text))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateInputScript {
		b.WriteString(m.script.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter run step • : script • q quit"))
	}

	return b.String()
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
