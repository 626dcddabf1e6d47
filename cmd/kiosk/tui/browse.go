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

	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/session"
)

// BrowseMode represents the current mode of the browse UI
type BrowseMode int

const (
	BrowseList BrowseMode = iota
	BrowseQty
)

// BrowseModel is the product browsing and add-to-cart flow.
type BrowseModel struct {
	mode        BrowseMode
	list        list.Model
	qty         textinput.Model
	sess        *session.Session
	products    []*catalog.Product
	selected    *catalog.Product
	inStockOnly bool
	status      string
	width       int
	height      int
}

// NewBrowseModel creates the browse UI over a sorted product slice.
func NewBrowseModel(sess *session.Session, products []*catalog.Product) BrowseModel {
	qty := textinput.New()
	qty.Placeholder = "1"
	qty.CharLimit = 2
	qty.Width = 4

	l := list.New(nil, ProductDelegate{}, 0, 0)
	l.Title = "Browse & Shop"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	m := BrowseModel{
		mode:     BrowseList,
		list:     l,
		qty:      qty,
		sess:     sess,
		products: products,
	}
	m.refreshItems()
	return m
}

func (m *BrowseModel) refreshItems() {
	filter := catalog.Filter{InStockOnly: m.inStockOnly}
	vip := m.sess.User.VIPActiveOn(time.Now())

	var items []list.Item
	for _, p := range catalog.Apply(m.products, filter) {
		items = append(items, ProductItem{Product: p, VIPActive: vip})
	}
	m.list.SetItems(items)
}

// Init initializes the model
func (m BrowseModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case BrowseList:
			// While the fuzzy filter is typing, only ctrl+c is ours.
			if m.list.FilterState() == list.Filtering {
				if msg.String() == "ctrl+c" {
					return m, tea.Quit
				}
				break
			}

			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit

			case "i":
				m.inStockOnly = !m.inStockOnly
				m.refreshItems()
				if m.inStockOnly {
					m.status = infoStyle.Render("showing in-stock products only")
				} else {
					m.status = infoStyle.Render("showing all products")
				}
				return m, nil

			case "enter":
				item, ok := m.list.SelectedItem().(ProductItem)
				if !ok {
					return m, nil
				}
				m.selected = item.Product
				m.qty.SetValue("")
				m.qty.Focus()
				m.mode = BrowseQty
				m.status = ""
				return m, textinput.Blink
			}

		case BrowseQty:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit

			case "esc":
				m.mode = BrowseList
				m.qty.Blur()
				return m, nil

			case "enter":
				return m.addSelected()
			}

			var cmd tea.Cmd
			m.qty, cmd = m.qty.Update(msg)
			return m, cmd
		}
	}

	if m.mode == BrowseList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BrowseModel) addSelected() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.qty.Value())
	if raw == "" {
		raw = "1"
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		m.status = dangerStyle.Render("enter a whole number")
		return m, nil
	}

	if err := m.sess.Cart.Add(m.selected, qty); err != nil {
		m.status = dangerStyle.Render(err.Error())
		m.mode = BrowseList
		m.qty.Blur()
		return m, nil
	}

	m.status = successStyle.Render(fmt.Sprintf("Added %d × %s", qty, m.selected.Name)) +
		mutedStyle.Render(fmt.Sprintf("  (cart: %d units)", m.sess.Cart.Units()))
	m.mode = BrowseList
	m.qty.Blur()
	return m, nil
}

// View renders the UI
func (m BrowseModel) View() string {
	switch m.mode {
	case BrowseQty:
		var b strings.Builder
		b.WriteString(titleStyle.Render(m.selected.Name))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(m.selected.Brand + " • " + m.selected.Category))
		b.WriteString("\n\n")
		b.WriteString(priceStyle.Render(FormatMoney(m.selected.Price)))
		b.WriteString("  ")
		b.WriteString(vipPriceStyle.Render("VIP " + FormatMoney(m.selected.VIPPrice)))
		b.WriteString("  ")
		b.WriteString(FormatStock(m.selected.Stock))
		b.WriteString("\n\n")
		b.WriteString("Quantity: ")
		b.WriteString(m.qty.View())
		if m.status != "" {
			b.WriteString("\n\n")
			b.WriteString(m.status)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(FormatKey("enter", "add to cart") + " • " + FormatKey("esc", "back")))

		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(b.String()))

	default:
		help := helpStyle.Render(
			FormatKey("enter", "add to cart") + " • " +
				FormatKey("/", "search") + " • " +
				FormatKey("i", "in stock only") + " • " +
				FormatKey("esc", "back"),
		)

		parts := []string{m.list.View()}
		if m.status != "" {
			parts = append(parts, m.status)
		}
		parts = append(parts, help)
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
}

// RunBrowse starts the browse flow for a session.
func RunBrowse(sess *session.Session, products []*catalog.Product) error {
	p := tea.NewProgram(NewBrowseModel(sess, products))
	_, err := p.Run()
	return err
}
