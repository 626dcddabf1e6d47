package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuModel presents a numbered menu and reports the chosen entry.
type MenuModel struct {
	list    list.Model
	entries []MenuEntry
	status  string
	choice  string
	quit    bool
	width   int
	height  int
}

// NewMenuModel creates a numbered menu. status is an optional footer
// line, typically the signed-in user and cart summary.
func NewMenuModel(title, status string, entries []MenuEntry) MenuModel {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = e
	}

	l := list.New(items, MenuDelegate{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	return MenuModel{
		list:    l,
		entries: entries,
		status:  status,
	}
}

// Init initializes the model
func (m MenuModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true
			return m, tea.Quit

		case "esc", "0":
			return m, tea.Quit

		case "enter":
			if e, ok := m.list.SelectedItem().(MenuEntry); ok {
				m.choice = e.Key
				return m, tea.Quit
			}
			return m, nil

		default:
			if n, err := strconv.Atoi(msg.String()); err == nil {
				for _, e := range m.entries {
					if e.Number == n {
						m.choice = e.Key
						return m, tea.Quit
					}
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI
func (m MenuModel) View() string {
	help := helpStyle.Render(
		FormatKey("1-9", "choose") + " • " +
			FormatKey("enter", "select") + " • " +
			FormatKey("0/esc", "back") + " • " +
			FormatKey("q", "quit"),
	)

	parts := []string{m.list.View()}
	if m.status != "" {
		parts = append(parts, subtitleStyle.Render(m.status))
	}
	parts = append(parts, help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RunMenu shows a numbered menu. An empty choice means back; quit means
// the person asked to leave the whole session.
func RunMenu(title, status string, entries []MenuEntry) (choice string, quit bool, err error) {
	p := tea.NewProgram(NewMenuModel(title, status, entries))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m := final.(MenuModel)
	return m.choice, m.quit, nil
}
