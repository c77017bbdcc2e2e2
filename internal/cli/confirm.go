package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is the bubbletea model for a yes/no prompt preceded by a
// block of detail lines (typically a requirements diff).
type ConfirmModel struct {
	Title    string
	Details  []string
	Prompt   string
	Accepted bool
	Answered bool
}

// NewConfirmModel creates a confirmation prompt.
func NewConfirmModel(title string, details []string, prompt string) ConfirmModel {
	return ConfirmModel{Title: title, Details: details, Prompt: prompt}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.Accepted = true
			m.Answered = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.Accepted = false
			m.Answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")
	for _, line := range m.Details {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.Prompt + " " + StyleDim.Render("[Y/n]") + " ")

	return b.String()
}

// confirm runs the prompt and reports whether the user accepted. A closed
// or non-interactive terminal counts as declined: headless runs (piped
// stdin, no TTY) must leave the store untouched rather than fail.
func confirm(title string, details []string, prompt string) bool {
	p := tea.NewProgram(NewConfirmModel(title, details, prompt))
	final, err := p.Run()
	if err != nil {
		printDetail("no interactive terminal; use --update to apply changes")
		return false
	}
	m, ok := final.(ConfirmModel)
	if !ok || !m.Answered {
		return false
	}
	return m.Accepted
}
