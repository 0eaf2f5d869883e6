package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	slotsPerRow  = 8
	maxGridSlots = 32 * slotsPerRow
	eventRows    = 6
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateCommand modelState = iota
	stateShowHelp
)

type interactiveModel struct {
	err    error
	s      *session
	result string
	input  textinput.Model
	state  modelState
}

func newInteractiveModel(s *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "append 1 2 3"
	ti.Prompt = "> "
	ti.Width = 50
	ti.Focus()

	return &interactiveModel{
		s:     s,
		input: ti,
		state: stateCommand,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			if m.state == stateShowHelp {
				m.state = stateCommand
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			return m, m.runCommand(line)

		case "esc":
			if m.state == stateShowHelp {
				m.state = stateCommand
				return m, nil
			}
			m.input.Reset()
			m.result = ""
			m.err = nil
			return m, nil

		case "f1":
			m.state = stateShowHelp
			return m, nil
		}
	}

	if m.state == stateCommand {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// runCommand executes line synchronously inside Update. View reads the
// session, which is not safe for concurrent use.
func (m *interactiveModel) runCommand(line string) tea.Cmd {
	out, err := m.s.exec(line)
	if stderrors.Is(err, errQuit) {
		return tea.Quit
	}
	m.result = out
	m.err = err
	return nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Native Int Array"))
	b.WriteString(" ")
	b.WriteString(m.s.backend)
	b.WriteString(" backend\n\n")

	if m.state == stateShowHelp {
		b.WriteString(helpText)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back"))
		return b.String()
	}

	if m.s.arr == nil {
		b.WriteString(emptyStyle.Render("no array (use new)"))
		b.WriteString("\n")
	} else {
		m.writeArray(&b)
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n\n")
	}

	events := m.s.events
	if len(events) > eventRows {
		events = events[len(events)-eventRows:]
	}
	for _, e := range events {
		b.WriteString(helpStyle.Render(e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • esc clear • f1 help • ctrl+c quit"))
	return b.String()
}

// writeArray renders the header line and the slot grid.
func (m *interactiveModel) writeArray(b *strings.Builder) {
	arr := m.s.arr
	b.WriteString(headerStyle.Render(fmt.Sprintf("block %s  occupied %d  capacity %d",
		arr.Handle(), arr.Len(), arr.Cap())))
	b.WriteString("\n\n")

	vals, ok := m.s.slots()
	hidden := 0
	if len(vals) > maxGridSlots {
		hidden = len(vals) - maxGridSlots
		vals, ok = vals[:maxGridSlots], ok[:maxGridSlots]
	}
	for i := range vals {
		cell := fmt.Sprintf("%11s", ".")
		if ok[i] {
			cell = filledStyle.Render(fmt.Sprintf("%11d", vals[i]))
		} else {
			cell = emptyStyle.Render(cell)
		}
		b.WriteString(cell)
		if (i+1)%slotsPerRow == 0 || i == len(vals)-1 {
			b.WriteString("\n")
		}
	}
	if hidden > 0 {
		b.WriteString(emptyStyle.Render(fmt.Sprintf("... %d more slots (use dump)", hidden)))
		b.WriteString("\n")
	}
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
