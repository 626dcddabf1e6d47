package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/cart"
	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/session"
)

// CartMode represents the current mode of the cart UI
type CartMode int

const (
	CartList CartMode = iota
	CartQty
)

// CartModel is the cart review flow: adjust quantities, remove lines,
// and hand off to checkout.
type CartModel struct {
	mode     CartMode
	sess     *session.Session
	lookup   func(sku string) (*catalog.Product, error)
	cursor   int
	qty      textinput.Model
	status   string
	checkout bool
	width    int
	height   int
}

// NewCartModel creates the cart UI. lookup resolves SKUs to live
// products for display pricing.
func NewCartModel(sess *session.Session, lookup func(string) (*catalog.Product, error)) CartModel {
	qty := textinput.New()
	qty.CharLimit = 2
	qty.Width = 4

	return CartModel{
		sess:   sess,
		lookup: lookup,
		qty:    qty,
	}
}

// Init initializes the model
func (m CartModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *CartModel) clampCursor() {
	if last := m.sess.Cart.Len() - 1; m.cursor > last {
		m.cursor = last
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m CartModel) currentLine() (*cart.Line, bool) {
	lines := m.sess.Cart.Lines()
	if len(lines) == 0 || m.cursor >= len(lines) {
		return nil, false
	}
	return lines[m.cursor], true
}

// Update handles messages
func (m CartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case CartList:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit

			case "up", "k":
				m.cursor--
				m.clampCursor()
				return m, nil

			case "down", "j":
				m.cursor++
				m.clampCursor()
				return m, nil

			case "+":
				return m.adjust(1)

			case "-":
				return m.adjust(-1)

			case "e", "enter":
				line, ok := m.currentLine()
				if !ok {
					return m, nil
				}
				m.qty.SetValue(strconv.Itoa(line.Qty))
				m.qty.Focus()
				m.mode = CartQty
				m.status = ""
				return m, textinput.Blink

			case "d", "x":
				line, ok := m.currentLine()
				if !ok {
					return m, nil
				}
				if err := m.sess.Cart.Remove(line.SKU); err != nil {
					m.status = dangerStyle.Render(err.Error())
					return m, nil
				}
				m.status = mutedStyle.Render("removed " + line.Name)
				m.clampCursor()
				return m, nil

			case "c":
				if m.sess.Cart.IsEmpty() {
					m.status = dangerStyle.Render("cart is empty")
					return m, nil
				}
				m.checkout = true
				return m, tea.Quit
			}

		case CartQty:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit

			case "esc":
				m.mode = CartList
				m.qty.Blur()
				return m, nil

			case "enter":
				return m.applyQty()
			}

			var cmd tea.Cmd
			m.qty, cmd = m.qty.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m CartModel) adjust(delta int) (tea.Model, tea.Cmd) {
	line, ok := m.currentLine()
	if !ok {
		return m, nil
	}
	next := line.Qty + delta
	if next == 0 {
		m.status = mutedStyle.Render("use d to remove the line")
		return m, nil
	}
	if err := m.sess.Cart.UpdateQuantity(line.SKU, next); err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}
	m.status = ""
	return m, nil
}

func (m CartModel) applyQty() (tea.Model, tea.Cmd) {
	line, ok := m.currentLine()
	if !ok {
		m.mode = CartList
		return m, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(m.qty.Value()))
	if err != nil {
		m.status = dangerStyle.Render("enter a whole number")
		return m, nil
	}
	if err := m.sess.Cart.UpdateQuantity(line.SKU, qty); err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}
	m.mode = CartList
	m.qty.Blur()
	m.status = ""
	return m, nil
}

// View renders the UI
func (m CartModel) View() string {
	if m.mode == CartQty {
		line, _ := m.currentLine()
		var b strings.Builder
		b.WriteString(titleStyle.Render("Update Quantity"))
		b.WriteString("\n")
		if line != nil {
			b.WriteString(subtitleStyle.Render(line.Name))
			b.WriteString("\n\n")
		}
		b.WriteString("Quantity: ")
		b.WriteString(m.qty.View())
		if m.status != "" {
			b.WriteString("\n\n")
			b.WriteString(m.status)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(FormatKey("enter", "apply") + " • " + FormatKey("esc", "back")))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(b.String()))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cart & Checkout"))
	b.WriteString("\n")

	lines := m.sess.Cart.Lines()
	if len(lines) == 0 {
		b.WriteString(mutedStyle.Render("Your cart is empty. Add products from Browse & Shop."))
		b.WriteString("\n")
	} else {
		vip := m.sess.User.VIPActiveOn(time.Now())
		subtotal := decimal.Zero

		for i, line := range lines {
			unit := "?"
			lineTotal := "?"
			if p, err := m.lookup(line.SKU); err == nil {
				u := p.UnitPrice(vip)
				unit = FormatMoney(u)
				total := u.Mul(decimal.NewFromInt(int64(line.Qty)))
				lineTotal = FormatMoney(total)
				subtotal = subtotal.Add(total)
			}

			row := fmt.Sprintf("%d × %-32s %8s  %9s", line.Qty, line.Name, unit, lineTotal)
			if i == m.cursor {
				b.WriteString(selectedItemStyle.Render("▸ " + row))
			} else {
				b.WriteString(unselectedItemStyle.Render(row))
			}
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s units • estimated subtotal %s",
			priceStyle.Render(strconv.Itoa(m.sess.Cart.Units())),
			priceStyle.Render(FormatMoney(subtotal)),
		))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("discounts, fees and stock are settled at checkout"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		FormatKey("+/-", "quantity") + " • " +
			FormatKey("e", "edit") + " • " +
			FormatKey("d", "remove") + " • " +
			FormatKey("c", "checkout") + " • " +
			FormatKey("esc", "back"),
	))

	return b.String()
}

// RunCart starts the cart review flow. checkout reports that the person
// chose to proceed to checkout.
func RunCart(sess *session.Session, lookup func(string) (*catalog.Product, error)) (checkout bool, err error) {
	p := tea.NewProgram(NewCartModel(sess, lookup))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	return final.(CartModel).checkout, nil
}
