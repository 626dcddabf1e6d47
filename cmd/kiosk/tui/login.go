package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferngrove/kiosk/pkg/account"
)

// LoginModel is the sign-in form.
type LoginModel struct {
	svc    *account.Service
	inputs []textinput.Model
	focus  int
	errMsg string
	busy   bool
	user   *account.User
}

// NewLoginModel creates the sign-in form.
func NewLoginModel(svc *account.Service) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 64
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		svc:    svc,
		inputs: []textinput.Model{email, password},
	}
}

// Init initializes the model
func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

type loginResultMsg struct {
	user *account.User
	err  error
}

func authenticateCmd(svc *account.Service, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := svc.Authenticate(email, password)
		return loginResultMsg{user: user, err: err}
	}
}

// Update handles messages
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.inputs[1].SetValue("")
			return m, nil
		}
		m.user = msg.user
		return m, tea.Quit

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			return m.setFocus(m.focus + 1)

		case "shift+tab", "up":
			return m.setFocus(m.focus - 1)

		case "enter":
			if m.focus == 0 {
				return m.setFocus(1)
			}
			email := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if email == "" || password == "" {
				m.errMsg = "enter your email and password"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, authenticateCmd(m.svc, email, password)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m LoginModel) setFocus(focus int) (tea.Model, tea.Cmd) {
	if focus < 0 {
		focus = len(m.inputs) - 1
	}
	if focus >= len(m.inputs) {
		focus = 0
	}
	m.focus = focus

	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == focus {
			cmds = append(cmds, m.inputs[i].Focus())
			continue
		}
		m.inputs[i].Blur()
	}
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ferngrove Market"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Sign in to start shopping"))
	b.WriteString("\n\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString("\n" + infoStyle.Render("Signing in..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + dangerStyle.Render(m.errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(
		FormatKey("tab", "next field") + " • " +
			FormatKey("enter", "sign in") + " • " +
			FormatKey("esc", "quit"),
	))

	return boxStyle.Render(b.String())
}

// RunLogin shows the sign-in form. A nil user means the person quit at
// the prompt.
func RunLogin(svc *account.Service) (*account.User, error) {
	p := tea.NewProgram(NewLoginModel(svc))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(LoginModel).user, nil
}
