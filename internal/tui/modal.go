package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is a blocking dialog with a title, a message and a row of buttons.
// Dismissing it with esc picks the last button, which is always the
// non-destructive choice.
type Modal struct {
	visible bool
	failed  bool
	title   string
	body    string
	buttons []string
	focus   int
	keys    modalKeyMap
}

type modalKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Dismiss key.Binding
}

func defaultModalKeys() modalKeyMap {
	return modalKeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "tab", "l"),
			key.WithHelp("→/tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "shift+tab", "h"),
			key.WithHelp("←", "previous"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// NewModal returns a hidden modal.
func NewModal() Modal {
	return Modal{keys: defaultModalKeys()}
}

// Show displays the modal with the first button focused. failed switches to
// the error border.
func (m *Modal) Show(title, body string, failed bool, buttons ...string) {
	m.visible = true
	m.failed = failed
	m.title = title
	m.body = body
	m.buttons = buttons
	m.focus = 0
}

// Hide dismisses the modal.
func (m *Modal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown.
func (m Modal) IsVisible() bool {
	return m.visible
}

// Title returns the modal title.
func (m Modal) Title() string {
	return m.title
}

// Focused returns the index of the focused button.
func (m Modal) Focused() int {
	return m.focus
}

// Update handles key presses. It returns the modal, the index of the chosen
// button, and whether a button was chosen.
func (m Modal) Update(msg tea.Msg) (Modal, int, bool) {
	if !m.visible || len(m.buttons) == 0 {
		return m, 0, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, 0, false
	}

	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.focus = (m.focus + 1) % len(m.buttons)
	case key.Matches(keyMsg, m.keys.Prev):
		m.focus = (m.focus - 1 + len(m.buttons)) % len(m.buttons)
	case key.Matches(keyMsg, m.keys.Confirm):
		m.Hide()
		return m, m.focus, true
	case key.Matches(keyMsg, m.keys.Dismiss):
		m.Hide()
		return m, len(m.buttons) - 1, true
	}
	return m, 0, false
}

// View renders the modal.
func (m Modal) View() string {
	if !m.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorPanel).
		Bold(true).
		Width(modalWidth)
	if m.failed {
		titleStyle = titleStyle.Foreground(ColorRed)
	}

	bodyStyle := lipgloss.NewStyle().
		Foreground(ColorLight).
		Background(ColorPanel).
		Width(modalWidth)

	buttons := make([]string, len(m.buttons))
	for i, label := range m.buttons {
		if i == m.focus {
			buttons[i] = ActiveButtonStyle.Render(label)
		} else {
			buttons[i] = ButtonStyle.Render(label)
		}
	}
	row := lipgloss.NewStyle().
		Width(modalWidth).
		Background(ColorPanel).
		Align(lipgloss.Right).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(buttons, " ")))

	spacer := lipgloss.NewStyle().Width(modalWidth).Background(ColorPanel).Render("")

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		spacer,
		bodyStyle.Render(m.body),
		spacer,
		row,
	)

	style := ModalStyle
	if m.failed {
		style = ModalFailedStyle
	}
	return style.Render(content)
}
