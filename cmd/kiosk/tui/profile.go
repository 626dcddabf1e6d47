package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/checkout"
	"github.com/ferngrove/kiosk/pkg/session"
	"github.com/ferngrove/kiosk/pkg/storage"
)

// ProfileMode represents the current mode of the profile UI
type ProfileMode int

const (
	ProfileMenu ProfileMode = iota
	ProfileTopUp
	ProfileVIPYears
	ProfileVIPConfirm
	ProfileCancelVIP
	ProfilePassword
	ProfileContact
	ProfileOrders
	ProfileLedger
)

// ProfileModel is the profile and membership flow.
type ProfileModel struct {
	mode   ProfileMode
	sess   *session.Session
	svc    *account.Service
	orders *storage.OrderStore
	ledger *storage.MembershipLedger

	menu         list.Model
	amount       textinput.Model
	years        textinput.Model
	vipYears     int
	confirmation ConfirmationDialog
	passwords    []textinput.Model
	contacts     []textinput.Model
	focus        int

	orderRows  []*checkout.Order
	ledgerRows []*account.MembershipEvent

	status string
	width  int
	height int
}

// NewProfileModel creates the profile UI.
func NewProfileModel(sess *session.Session, svc *account.Service, orders *storage.OrderStore, ledger *storage.MembershipLedger) ProfileModel {
	entries := []MenuEntry{
		{Key: "topup", Number: 1, Label: "Top up funds"},
		{Key: "vip", Number: 2, Label: "Buy or renew VIP", Desc: "member prices on every product"},
		{Key: "cancelvip", Number: 3, Label: "Cancel VIP", Desc: "non-refundable"},
		{Key: "password", Number: 4, Label: "Change password"},
		{Key: "contact", Number: 5, Label: "Update contact details"},
		{Key: "orders", Number: 6, Label: "Order history"},
		{Key: "ledger", Number: 7, Label: "Membership history"},
	}
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	menu := list.New(items, MenuDelegate{}, 0, 0)
	menu.Title = "Profile & Membership"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.Styles.Title = titleStyle

	amount := textinput.New()
	amount.Placeholder = "amount, e.g. 50"
	amount.CharLimit = 8
	amount.Width = 16

	years := textinput.New()
	years.Placeholder = "years"
	years.CharLimit = 2
	years.Width = 8

	current := textinput.New()
	current.Placeholder = "current password"
	current.EchoMode = textinput.EchoPassword
	current.EchoCharacter = '•'
	current.Width = 34
	next := textinput.New()
	next.Placeholder = "new password"
	next.EchoMode = textinput.EchoPassword
	next.EchoCharacter = '•'
	next.Width = 34
	repeat := textinput.New()
	repeat.Placeholder = "repeat new password"
	repeat.EchoMode = textinput.EchoPassword
	repeat.EchoCharacter = '•'
	repeat.Width = 34

	mobile := textinput.New()
	mobile.Placeholder = "mobile"
	mobile.CharLimit = 20
	mobile.Width = 34
	address := textinput.New()
	address.Placeholder = "address"
	address.CharLimit = 120
	address.Width = 50

	return ProfileModel{
		sess:      sess,
		svc:       svc,
		orders:    orders,
		ledger:    ledger,
		menu:      menu,
		amount:    amount,
		years:     years,
		passwords: []textinput.Model{current, next, repeat},
		contacts:  []textinput.Model{mobile, address},
	}
}

// Init initializes the model
func (m ProfileModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case ProfileMenu:
			return m.updateMenu(msg)
		case ProfileTopUp:
			return m.updateTopUp(msg)
		case ProfileVIPYears:
			return m.updateVIPYears(msg)
		case ProfileVIPConfirm:
			return m.updateVIPConfirm(msg)
		case ProfileCancelVIP:
			return m.updateCancelVIP(msg)
		case ProfilePassword:
			return m.updatePassword(msg)
		case ProfileContact:
			return m.updateContact(msg)
		case ProfileOrders, ProfileLedger:
			switch msg.String() {
			case "esc", "q", "enter":
				m.mode = ProfileMenu
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ProfileModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choose := func(key string) (tea.Model, tea.Cmd) {
		m.status = ""
		switch key {
		case "topup":
			m.mode = ProfileTopUp
			m.amount.SetValue("")
			return m, m.amount.Focus()
		case "vip":
			m.mode = ProfileVIPYears
			m.years.SetValue("1")
			return m, m.years.Focus()
		case "cancelvip":
			m.confirmation = NewConfirmationDialog(
				"Cancel VIP",
				"Cancellation is immediate and non-refundable. Continue?",
			)
			m.mode = ProfileCancelVIP
			return m, nil
		case "password":
			for i := range m.passwords {
				m.passwords[i].SetValue("")
			}
			m.focus = 0
			m.mode = ProfilePassword
			return m, m.setPasswordFocus(0)
		case "contact":
			m.contacts[0].SetValue(m.sess.User.Mobile)
			m.contacts[1].SetValue(m.sess.User.Address)
			m.focus = 0
			m.mode = ProfileContact
			return m, m.setContactFocus(0)
		case "orders":
			rows, err := m.orders.ListByEmail(m.sess.User.Email)
			if err != nil {
				m.status = dangerStyle.Render(err.Error())
				return m, nil
			}
			m.orderRows = rows
			m.mode = ProfileOrders
			return m, nil
		case "ledger":
			m.ledgerRows = m.ledger.ListByEmail(m.sess.User.Email)
			m.mode = ProfileLedger
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q", "0":
		return m, tea.Quit
	case "enter":
		if e, ok := m.menu.SelectedItem().(MenuEntry); ok {
			return choose(e.Key)
		}
		return m, nil
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil {
			for _, item := range m.menu.Items() {
				if e, ok := item.(MenuEntry); ok && e.Number == n {
					return choose(e.Key)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m ProfileModel) updateTopUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ProfileMenu
		m.amount.Blur()
		return m, nil
	case "enter":
		amount, err := decimal.NewFromString(strings.TrimSpace(m.amount.Value()))
		if err != nil {
			m.status = dangerStyle.Render("enter an amount, e.g. 50 or 19.95")
			return m, nil
		}
		if err := m.svc.TopUp(m.sess.User, amount); err != nil {
			m.status = dangerStyle.Render(err.Error())
			return m, nil
		}
		m.status = successStyle.Render(fmt.Sprintf("added %s — balance %s",
			FormatMoney(amount), FormatMoney(m.sess.User.Funds)))
		m.mode = ProfileMenu
		m.amount.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	return m, cmd
}

func (m ProfileModel) updateVIPYears(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ProfileMenu
		m.years.Blur()
		return m, nil
	case "enter":
		years, err := strconv.Atoi(strings.TrimSpace(m.years.Value()))
		if err != nil || years < 1 {
			m.status = dangerStyle.Render("enter a whole number of years")
			return m, nil
		}
		m.vipYears = years
		cost := m.svc.Rates().VIPYearPrice.Mul(decimal.NewFromInt(int64(years)))

		verb := "Buy"
		if m.sess.User.VIPActiveOn(time.Now()) {
			verb = "Renew"
		}
		m.confirmation = NewConfirmationDialog(
			verb+" VIP",
			fmt.Sprintf("%s %d year(s) of VIP for %s?", verb, years, FormatMoney(cost)),
		)
		m.years.Blur()
		m.mode = ProfileVIPConfirm
		return m, nil
	}
	var cmd tea.Cmd
	m.years, cmd = m.years.Update(msg)
	return m, cmd
}

func (m ProfileModel) updateVIPConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = ProfileMenu
		return m, nil
	}
	decided, confirmed := m.confirmation.Update(msg)
	if !decided {
		return m, nil
	}
	m.mode = ProfileMenu
	if !confirmed {
		return m, nil
	}

	cost, err := m.svc.BuyVIP(m.sess.User, m.vipYears)
	if err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}
	m.status = successStyle.Render(fmt.Sprintf("VIP active until %s (charged %s)",
		m.sess.User.VIPExpires.Format("2006-01-02"), FormatMoney(cost)))
	return m, nil
}

func (m ProfileModel) updateCancelVIP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = ProfileMenu
		return m, nil
	}
	decided, confirmed := m.confirmation.Update(msg)
	if !decided {
		return m, nil
	}
	m.mode = ProfileMenu
	if !confirmed {
		return m, nil
	}

	if err := m.svc.CancelVIP(m.sess.User); err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}
	m.status = mutedStyle.Render("VIP membership cancelled")
	return m, nil
}

func (m ProfileModel) setPasswordFocus(focus int) tea.Cmd {
	m.focus = focus
	var cmds []tea.Cmd
	for i := range m.passwords {
		if i == focus {
			cmds = append(cmds, m.passwords[i].Focus())
			continue
		}
		m.passwords[i].Blur()
	}
	return tea.Batch(cmds...)
}

func (m ProfileModel) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ProfileMenu
		return m, nil

	case "tab", "down":
		next := (m.focus + 1) % len(m.passwords)
		return m, m.setPasswordFocus(next)

	case "shift+tab", "up":
		next := (m.focus + len(m.passwords) - 1) % len(m.passwords)
		return m, m.setPasswordFocus(next)

	case "enter":
		if m.focus < len(m.passwords)-1 {
			return m, m.setPasswordFocus(m.focus + 1)
		}
		current := m.passwords[0].Value()
		next := m.passwords[1].Value()
		if next != m.passwords[2].Value() {
			m.status = dangerStyle.Render("new passwords do not match")
			return m, nil
		}
		if err := m.svc.ChangePassword(m.sess.User, current, next); err != nil {
			m.status = dangerStyle.Render(err.Error())
			return m, nil
		}
		m.status = successStyle.Render("password updated")
		m.mode = ProfileMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.passwords[m.focus], cmd = m.passwords[m.focus].Update(msg)
	return m, cmd
}

func (m ProfileModel) setContactFocus(focus int) tea.Cmd {
	m.focus = focus
	var cmds []tea.Cmd
	for i := range m.contacts {
		if i == focus {
			cmds = append(cmds, m.contacts[i].Focus())
			continue
		}
		m.contacts[i].Blur()
	}
	return tea.Batch(cmds...)
}

func (m ProfileModel) updateContact(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ProfileMenu
		return m, nil

	case "tab", "down", "shift+tab", "up":
		return m, m.setContactFocus((m.focus + 1) % len(m.contacts))

	case "enter":
		if m.focus < len(m.contacts)-1 {
			return m, m.setContactFocus(m.focus + 1)
		}
		if err := m.svc.UpdateContact(m.sess.User, m.contacts[0].Value(), m.contacts[1].Value()); err != nil {
			m.status = dangerStyle.Render(err.Error())
			return m, nil
		}
		m.status = successStyle.Render("contact details updated")
		m.mode = ProfileMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.contacts[m.focus], cmd = m.contacts[m.focus].Update(msg)
	return m, cmd
}

func (m ProfileModel) header() string {
	u := m.sess.User
	now := time.Now()

	vip := mutedStyle.Render("VIP: none")
	if u.VIPActiveOn(now) {
		vip = vipPriceStyle.Render(fmt.Sprintf("VIP until %s (%d days)",
			u.VIPExpires.Format("2006-01-02"), u.VIPDaysRemaining(now)))
	} else if !u.VIPExpires.IsZero() {
		vip = warningStyle.Render("VIP expired " + u.VIPExpires.Format("2006-01-02"))
	}

	student := ""
	if u.Student {
		student = "  " + infoStyle.Render("student")
	}

	return fmt.Sprintf("%s  •  funds %s  •  %s%s",
		u.DisplayName(), priceStyle.Render(FormatMoney(u.Funds)), vip, student)
}

// View renders the UI
func (m ProfileModel) View() string {
	box := func(title, body, help string) string {
		var b strings.Builder
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
		b.WriteString(body)
		if m.status != "" {
			b.WriteString("\n\n")
			b.WriteString(m.status)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(help))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(b.String()))
	}

	switch m.mode {
	case ProfileTopUp:
		return box("Top Up Funds", "Amount: "+m.amount.View(),
			FormatKey("enter", "add funds")+" • "+FormatKey("esc", "back"))

	case ProfileVIPYears:
		return box("VIP Membership",
			fmt.Sprintf("%s per year, member prices storewide\n\nYears: %s",
				FormatMoney(m.svc.Rates().VIPYearPrice), m.years.View()),
			FormatKey("enter", "next")+" • "+FormatKey("esc", "back"))

	case ProfileVIPConfirm, ProfileCancelVIP:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())

	case ProfilePassword:
		body := m.passwords[0].View() + "\n" + m.passwords[1].View() + "\n" + m.passwords[2].View()
		return box("Change Password", body,
			FormatKey("tab", "next field")+" • "+FormatKey("enter", "save")+" • "+FormatKey("esc", "back"))

	case ProfileContact:
		body := m.contacts[0].View() + "\n" + m.contacts[1].View()
		return box("Update Contact Details", body,
			FormatKey("tab", "next field")+" • "+FormatKey("enter", "save")+" • "+FormatKey("esc", "back"))

	case ProfileOrders:
		return m.viewOrders()

	case ProfileLedger:
		return m.viewLedger()

	default:
		parts := []string{
			m.menu.View(),
			subtitleStyle.Render(m.header()),
		}
		if m.status != "" {
			parts = append(parts, m.status)
		}
		parts = append(parts, helpStyle.Render(
			FormatKey("1-7", "choose")+" • "+FormatKey("esc", "back"),
		))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
}

func (m ProfileModel) viewOrders() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Order History"))
	b.WriteString("\n")

	if len(m.orderRows) == 0 {
		b.WriteString(mutedStyle.Render("No orders yet."))
		b.WriteString("\n")
	}

	const maxRows = 12
	for i, o := range m.orderRows {
		if i == maxRows {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("… and %d more", len(m.orderRows)-maxRows)))
			b.WriteString("\n")
			break
		}
		where := o.StoreID
		if o.Fulfilment == checkout.Delivery {
			where = o.Address
		}
		b.WriteString(fmt.Sprintf("%s  %s  %-8s %-24s %2d units  %9s\n",
			o.ID,
			o.PlacedAt.Format("2006-01-02 15:04"),
			o.Fulfilment,
			where,
			o.Units(),
			FormatMoney(o.Total),
		))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("esc", "back")))
	return b.String()
}

func (m ProfileModel) viewLedger() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Membership History"))
	b.WriteString("\n")

	if len(m.ledgerRows) == 0 {
		b.WriteString(mutedStyle.Render("No membership events yet."))
		b.WriteString("\n")
	}

	for _, ev := range m.ledgerRows {
		years := ""
		if ev.Years > 0 {
			years = fmt.Sprintf("%d year(s)", ev.Years)
		}
		b.WriteString(fmt.Sprintf("%s  %-8s %-10s %9s  %s\n",
			ev.RecordedAt.Format("2006-01-02 15:04"),
			ev.Action,
			years,
			FormatMoney(ev.Amount),
			mutedStyle.Render(ev.Note),
		))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("esc", "back")))
	return b.String()
}

// RunProfile starts the profile flow for a session.
func RunProfile(sess *session.Session, svc *account.Service, orders *storage.OrderStore, ledger *storage.MembershipLedger) error {
	p := tea.NewProgram(NewProfileModel(sess, svc, orders, ledger))
	_, err := p.Run()
	return err
}
