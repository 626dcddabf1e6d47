package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ferngrove/kiosk/pkg/checkout"
	"github.com/ferngrove/kiosk/pkg/session"
	"github.com/ferngrove/kiosk/pkg/storage"
)

// CheckoutMode represents the current step of the checkout wizard
type CheckoutMode int

const (
	CheckoutFulfilment CheckoutMode = iota
	CheckoutAddress
	CheckoutStore
	CheckoutPromo
	CheckoutPricing
	CheckoutReview
	CheckoutConfirm
	CheckoutPlacing
	CheckoutDone
	CheckoutError
)

// CheckoutModel walks a cart through fulfilment, promo entry, review and
// confirmation. The engine re-validates everything at placement.
type CheckoutModel struct {
	mode   CheckoutMode
	sess   *session.Session
	engine *checkout.Engine

	deliverySelected bool
	fulfilment       checkout.Fulfilment
	address          textinput.Model
	stores           list.Model
	storeID          string
	promoInput       textinput.Model
	promoCode        string
	note             string

	quote        *checkout.Order
	confirmation ConfirmationDialog
	placed       *checkout.Order
	err          error

	width  int
	height int
}

// NewCheckoutModel creates the checkout wizard.
func NewCheckoutModel(sess *session.Session, engine *checkout.Engine, stores []*storage.StoreLocation) CheckoutModel {
	address := textinput.New()
	address.Placeholder = "delivery address"
	address.CharLimit = 120
	address.Width = 50
	address.SetValue(sess.User.Address)

	promo := textinput.New()
	promo.Placeholder = "promo code (leave empty to skip)"
	promo.CharLimit = 16
	promo.Width = 34

	items := make([]list.Item, len(stores))
	for i, s := range stores {
		items[i] = StoreItem{Store: s}
	}
	storeList := list.New(items, StoreDelegate{}, 0, 0)
	storeList.Title = "Choose a pickup store"
	storeList.SetShowStatusBar(false)
	storeList.SetFilteringEnabled(false)
	storeList.SetShowHelp(false)
	storeList.Styles.Title = titleStyle

	return CheckoutModel{
		mode:             CheckoutFulfilment,
		sess:             sess,
		engine:           engine,
		deliverySelected: true,
		address:          address,
		stores:           storeList,
		promoInput:       promo,
	}
}

// Init initializes the model
func (m CheckoutModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Messages
type promoCheckedMsg struct {
	code string
	note string
	err  error
}

type quoteResultMsg struct {
	order *checkout.Order
	err   error
}

type placeResultMsg struct {
	order *checkout.Order
	err   error
}

// Commands
func checkPromoCmd(e *checkout.Engine, sess *session.Session, f checkout.Fulfilment, code string) tea.Cmd {
	return func() tea.Msg {
		p, err := e.ValidatePromo(sess.User, f, code)
		if err != nil {
			return promoCheckedMsg{code: code, err: err}
		}
		return promoCheckedMsg{
			code: p.Code,
			note: fmt.Sprintf("%s applied: %s off (%s)", p.Code, p.Percent(), p.Description),
		}
	}
}

func quoteCmd(e *checkout.Engine, req checkout.Request) tea.Cmd {
	return func() tea.Msg {
		order, err := e.Quote(req)
		return quoteResultMsg{order: order, err: err}
	}
}

func placeCmd(e *checkout.Engine, req checkout.Request) tea.Cmd {
	return func() tea.Msg {
		order, err := e.Place(req)
		return placeResultMsg{order: order, err: err}
	}
}

func (m CheckoutModel) request() checkout.Request {
	req := checkout.Request{
		Customer:   m.sess.User,
		Cart:       m.sess.Cart,
		Fulfilment: m.fulfilment,
		PromoCode:  m.promoCode,
	}
	switch m.fulfilment {
	case checkout.Delivery:
		req.Address = m.address.Value()
	case checkout.Pickup:
		req.StoreID = m.storeID
	}
	return req
}

// Update handles messages
func (m CheckoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stores.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case promoCheckedMsg:
		if msg.err != nil {
			m.note = dangerStyle.Render(msg.err.Error())
			m.promoInput.Focus()
			return m, nil
		}
		m.promoCode = msg.code
		m.note = successStyle.Render(msg.note)
		m.mode = CheckoutPricing
		return m, quoteCmd(m.engine, m.request())

	case quoteResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = CheckoutError
			return m, nil
		}
		m.quote = msg.order
		m.mode = CheckoutReview
		return m, nil

	case placeResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = CheckoutError
			return m, nil
		}
		m.placed = msg.order
		m.sess.Cart.Clear()
		m.mode = CheckoutDone
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m CheckoutModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case CheckoutFulfilment:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h", "1":
			m.deliverySelected = true
		case "right", "l", "2":
			m.deliverySelected = false
		case "enter":
			m.note = ""
			if m.deliverySelected {
				m.fulfilment = checkout.Delivery
				m.mode = CheckoutAddress
				return m, m.address.Focus()
			}
			m.fulfilment = checkout.Pickup
			m.mode = CheckoutStore
			return m, nil
		}
		return m, nil

	case CheckoutAddress:
		switch msg.String() {
		case "esc":
			m.mode = CheckoutFulfilment
			m.address.Blur()
			return m, nil
		case "enter":
			if strings.TrimSpace(m.address.Value()) == "" {
				m.note = dangerStyle.Render("delivery needs an address")
				return m, nil
			}
			m.address.Blur()
			return m.enterPromoStep()
		}
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd

	case CheckoutStore:
		switch msg.String() {
		case "esc":
			m.mode = CheckoutFulfilment
			return m, nil
		case "enter":
			item, ok := m.stores.SelectedItem().(StoreItem)
			if !ok {
				return m, nil
			}
			m.storeID = item.Store.ID
			return m.enterPromoStep()
		}
		var cmd tea.Cmd
		m.stores, cmd = m.stores.Update(msg)
		return m, cmd

	case CheckoutPromo:
		switch msg.String() {
		case "esc":
			if m.fulfilment == checkout.Delivery {
				m.mode = CheckoutAddress
				return m, m.address.Focus()
			}
			m.mode = CheckoutStore
			return m, nil
		case "enter":
			code := strings.TrimSpace(m.promoInput.Value())
			if code == "" {
				m.promoCode = ""
				m.mode = CheckoutPricing
				return m, quoteCmd(m.engine, m.request())
			}
			m.promoInput.Blur()
			return m, checkPromoCmd(m.engine, m.sess, m.fulfilment, code)
		}
		var cmd tea.Cmd
		m.promoInput, cmd = m.promoInput.Update(msg)
		return m, cmd

	case CheckoutReview:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "p":
			return m.enterPromoStep()
		case "f":
			m.mode = CheckoutFulfilment
			return m, nil
		case "enter":
			m.confirmation = NewConfirmationDialog(
				"Place Order",
				fmt.Sprintf("Charge %s to your account?", FormatMoney(m.quote.Total)),
			)
			m.mode = CheckoutConfirm
			return m, nil
		}
		return m, nil

	case CheckoutConfirm:
		if msg.String() == "esc" {
			m.mode = CheckoutReview
			return m, nil
		}
		decided, confirmed := m.confirmation.Update(msg)
		if !decided {
			return m, nil
		}
		if !confirmed {
			m.mode = CheckoutReview
			return m, nil
		}
		m.mode = CheckoutPlacing
		return m, placeCmd(m.engine, m.request())

	case CheckoutDone:
		switch msg.String() {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case CheckoutError:
		switch msg.String() {
		case "r":
			m.mode = CheckoutPricing
			m.err = nil
			return m, quoteCmd(m.engine, m.request())
		case "enter", "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m CheckoutModel) enterPromoStep() (tea.Model, tea.Cmd) {
	m.mode = CheckoutPromo
	m.promoCode = ""
	m.note = ""
	if m.sess.User.Student && m.fulfilment == checkout.Pickup {
		m.note = mutedStyle.Render("promo codes cannot be combined with the student pickup discount")
	}
	return m, m.promoInput.Focus()
}

// View renders the UI
func (m CheckoutModel) View() string {
	switch m.mode {
	case CheckoutFulfilment:
		return m.centered(m.viewFulfilment())
	case CheckoutAddress:
		return m.centered(m.viewAddress())
	case CheckoutStore:
		help := helpStyle.Render(FormatKey("enter", "choose") + " • " + FormatKey("esc", "back"))
		return lipgloss.JoinVertical(lipgloss.Left, m.stores.View(), help)
	case CheckoutPromo:
		return m.centered(m.viewPromo())
	case CheckoutPricing:
		return m.centered(boxStyle.Render(infoStyle.Render("Pricing your order...")))
	case CheckoutReview:
		return m.centered(m.viewReview())
	case CheckoutConfirm:
		return m.centered(m.confirmation.View())
	case CheckoutPlacing:
		return m.centered(boxStyle.Render(infoStyle.Render("Placing your order...")))
	case CheckoutDone:
		return m.centered(m.viewDone())
	case CheckoutError:
		return m.centered(m.viewError())
	}
	return ""
}

func (m CheckoutModel) centered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m CheckoutModel) viewFulfilment() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Checkout"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("How would you like to receive your order?"))
	b.WriteString("\n\n")

	delivery := inactiveButtonStyle.Render("1 Delivery")
	pickup := inactiveButtonStyle.Render("2 Pickup")
	if m.deliverySelected {
		delivery = activeButtonStyle.Render("1 Delivery")
	} else {
		pickup = activeButtonStyle.Render("2 Pickup")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, delivery, "  ", pickup))
	b.WriteString("\n\n")

	if m.sess.User.Student {
		b.WriteString(infoStyle.Render("student benefits: 5% off pickup orders, free delivery"))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "next") + " • " + FormatKey("esc", "cancel")))
	return boxStyle.Render(b.String())
}

func (m CheckoutModel) viewAddress() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Delivery Address"))
	b.WriteString("\n\n")
	b.WriteString(m.address.View())
	if m.note != "" {
		b.WriteString("\n\n")
		b.WriteString(m.note)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("enter", "next") + " • " + FormatKey("esc", "back")))
	return boxStyle.Render(b.String())
}

func (m CheckoutModel) viewPromo() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Promo Code"))
	b.WriteString("\n\n")
	b.WriteString(m.promoInput.View())
	if m.note != "" {
		b.WriteString("\n\n")
		b.WriteString(m.note)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("enter", "apply or skip") + " • " + FormatKey("esc", "back")))
	return boxStyle.Render(b.String())
}

func (m CheckoutModel) viewReview() string {
	o := m.quote

	var b strings.Builder
	b.WriteString(titleStyle.Render("Review Your Order"))
	b.WriteString("\n")

	for _, line := range o.Lines {
		b.WriteString(fmt.Sprintf("%d × %-32s %8s  %9s\n",
			line.Qty, line.Name, FormatMoney(line.UnitPrice), FormatMoney(line.LineTotal)))
	}
	b.WriteString(strings.Repeat("─", 62))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%-48s %13s\n", label, value))
	}
	row("Subtotal", FormatMoney(o.Subtotal))
	if o.StudentDiscount.IsPositive() {
		row("Student discount (pickup)", "-"+FormatMoney(o.StudentDiscount))
	}
	if o.PromoDiscount.IsPositive() {
		row("Promo "+o.PromoCode, "-"+FormatMoney(o.PromoDiscount))
	}
	if o.DeliveryFee.IsPositive() {
		row("Delivery fee", FormatMoney(o.DeliveryFee))
	}
	b.WriteString(strings.Repeat("─", 62))
	b.WriteString("\n")
	b.WriteString(priceStyle.Render(fmt.Sprintf("%-48s %13s", "Total", FormatMoney(o.Total))))
	b.WriteString("\n")

	switch o.Fulfilment {
	case checkout.Delivery:
		b.WriteString(mutedStyle.Render("Delivery to: " + o.Address))
	case checkout.Pickup:
		b.WriteString(mutedStyle.Render("Pickup from store " + o.StoreID))
	}
	b.WriteString("\n")

	if o.PromoRejection != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("promo not applied: " + o.PromoRejection))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		FormatKey("enter", "place order") + " • " +
			FormatKey("p", "promo") + " • " +
			FormatKey("f", "fulfilment") + " • " +
			FormatKey("esc", "cancel"),
	))
	return boxStyle.Render(b.String())
}

func (m CheckoutModel) viewDone() string {
	o := m.placed

	var b strings.Builder
	b.WriteString(titleStyle.Render("Order Placed!"))
	b.WriteString("\n")
	b.WriteString(successStyle.Render(o.ID))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%d units • total %s\n", o.Units(), priceStyle.Render(FormatMoney(o.Total))))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("remaining funds %s", FormatMoney(m.sess.User.Funds))))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("enter", "done")))
	return boxStyle.Render(b.String())
}

func (m CheckoutModel) viewError() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Checkout Failed"))
	b.WriteString("\n\n")
	b.WriteString(dangerStyle.Render(m.err.Error()))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("your cart is unchanged"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("r", "retry") + " • " + FormatKey("esc", "back")))
	return boxStyle.Render(b.String())
}

// RunCheckout walks the checkout wizard. placed is nil when the person
// backed out without placing an order.
func RunCheckout(sess *session.Session, engine *checkout.Engine, stores []*storage.StoreLocation) (*checkout.Order, error) {
	p := tea.NewProgram(NewCheckoutModel(sess, engine, stores))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(CheckoutModel).placed, nil
}
