package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/catalog"
)

// AdminMode represents the current mode of the admin UI
type AdminMode int

const (
	AdminList AdminMode = iota
	AdminForm
	AdminDelete
)

// Form field indexes, in display order.
const (
	fieldSKU = iota
	fieldName
	fieldBrand
	fieldDescription
	fieldCategory
	fieldSubcategory
	fieldPrice
	fieldVIPPrice
	fieldStock
	fieldPerishable
	fieldExpiry
	fieldIngredients
	fieldStorage
	fieldAllergens
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"SKU",
	"Name",
	"Brand",
	"Description",
	"Category",
	"Subcategory",
	"Price",
	"VIP price",
	"Stock",
	"Perishable (y/n)",
	"Expiry date (2006-01-02)",
	"Ingredients",
	"Storage",
	"Allergens",
}

// AdminModel is the product and inventory management flow.
type AdminModel struct {
	mode AdminMode
	mgr  *catalog.Manager

	list         list.Model
	form         []textinput.Model
	focus        int
	editing      bool
	confirmation ConfirmationDialog
	deleteSKU    string

	status string
	width  int
	height int
}

// NewAdminModel creates the admin UI.
func NewAdminModel(mgr *catalog.Manager) AdminModel {
	l := list.New(nil, ProductDelegate{}, 0, 0)
	l.Title = "Product & Inventory"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	form := make([]textinput.Model, fieldCount)
	for i := range form {
		form[i] = textinput.New()
		form[i].Placeholder = strings.ToLower(fieldLabels[i])
		form[i].Width = 40
	}
	form[fieldSKU].CharLimit = 16
	form[fieldPrice].CharLimit = 10
	form[fieldVIPPrice].CharLimit = 10
	form[fieldStock].CharLimit = 6
	form[fieldPerishable].CharLimit = 3
	form[fieldExpiry].CharLimit = 10
	form[fieldDescription].Width = 56
	form[fieldIngredients].Width = 56

	m := AdminModel{mgr: mgr, list: l, form: form}
	m.refreshItems()
	return m
}

func (m *AdminModel) refreshItems() {
	products, err := m.mgr.List(catalog.Filter{})
	if err != nil {
		m.status = dangerStyle.Render(err.Error())
		return
	}
	items := make([]list.Item, len(products))
	for i, p := range products {
		items[i] = ProductItem{Product: p}
	}
	m.list.SetItems(items)
}

func (m *AdminModel) fillForm(p *catalog.Product) {
	m.form[fieldSKU].SetValue(p.SKU)
	m.form[fieldName].SetValue(p.Name)
	m.form[fieldBrand].SetValue(p.Brand)
	m.form[fieldDescription].SetValue(p.Description)
	m.form[fieldCategory].SetValue(p.Category)
	m.form[fieldSubcategory].SetValue(p.Subcategory)
	m.form[fieldPrice].SetValue(p.Price.StringFixed(2))
	m.form[fieldVIPPrice].SetValue(p.VIPPrice.StringFixed(2))
	m.form[fieldStock].SetValue(strconv.Itoa(p.Stock))
	perishable := "n"
	if p.Perishable {
		perishable = "y"
	}
	m.form[fieldPerishable].SetValue(perishable)
	m.form[fieldExpiry].SetValue(p.ExpiryDate)
	m.form[fieldIngredients].SetValue(p.Ingredients)
	m.form[fieldStorage].SetValue(p.Storage)
	m.form[fieldAllergens].SetValue(p.Allergens)
}

func (m *AdminModel) clearForm() {
	for i := range m.form {
		m.form[i].SetValue("")
	}
}

func (m *AdminModel) parseForm() (*catalog.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(m.form[fieldPrice].Value()))
	if err != nil {
		return nil, fmt.Errorf("price: enter a number, e.g. 12.50")
	}
	vipPrice, err := decimal.NewFromString(strings.TrimSpace(m.form[fieldVIPPrice].Value()))
	if err != nil {
		return nil, fmt.Errorf("vip price: enter a number, e.g. 10.95")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(m.form[fieldStock].Value()))
	if err != nil {
		return nil, fmt.Errorf("stock: enter a whole number")
	}

	perishable := false
	switch strings.ToLower(strings.TrimSpace(m.form[fieldPerishable].Value())) {
	case "y", "yes", "true", "1":
		perishable = true
	case "", "n", "no", "false", "0":
	default:
		return nil, fmt.Errorf("perishable: enter y or n")
	}

	return &catalog.Product{
		SKU:         m.form[fieldSKU].Value(),
		Name:        m.form[fieldName].Value(),
		Brand:       m.form[fieldBrand].Value(),
		Description: strings.TrimSpace(m.form[fieldDescription].Value()),
		Category:    m.form[fieldCategory].Value(),
		Subcategory: m.form[fieldSubcategory].Value(),
		Price:       price,
		VIPPrice:    vipPrice,
		Stock:       stock,
		Perishable:  perishable,
		ExpiryDate:  strings.TrimSpace(m.form[fieldExpiry].Value()),
		Ingredients: strings.TrimSpace(m.form[fieldIngredients].Value()),
		Storage:     strings.TrimSpace(m.form[fieldStorage].Value()),
		Allergens:   strings.TrimSpace(m.form[fieldAllergens].Value()),
	}, nil
}

func (m *AdminModel) setFormFocus(focus int) tea.Cmd {
	m.focus = focus
	var cmds []tea.Cmd
	for i := range m.form {
		if i == focus {
			cmds = append(cmds, m.form[i].Focus())
			continue
		}
		m.form[i].Blur()
	}
	return tea.Batch(cmds...)
}

// Init initializes the model
func (m AdminModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m AdminModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case AdminList:
			return m.updateList(msg)
		case AdminForm:
			return m.updateForm(msg)
		case AdminDelete:
			return m.updateDelete(msg)
		}
	}
	return m, nil
}

func (m AdminModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "a":
		m.clearForm()
		m.editing = false
		m.status = ""
		m.mode = AdminForm
		return m, m.setFormFocus(fieldSKU)

	case "e", "enter":
		item, ok := m.list.SelectedItem().(ProductItem)
		if !ok {
			return m, nil
		}
		m.fillForm(item.Product)
		m.editing = true
		m.status = ""
		m.mode = AdminForm
		return m, m.setFormFocus(fieldName)

	case "d", "x":
		item, ok := m.list.SelectedItem().(ProductItem)
		if !ok {
			return m, nil
		}
		m.deleteSKU = item.Product.SKU
		m.confirmation = NewConfirmationDialog(
			"Delete Product",
			fmt.Sprintf("Delete %s %s? Placed orders keep their snapshots.",
				item.Product.SKU, item.Product.Name),
		)
		m.mode = AdminDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m AdminModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = AdminList
		return m, nil

	case "tab", "down":
		return m, m.setFormFocus((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m, m.setFormFocus((m.focus + fieldCount - 1) % fieldCount)

	case "enter":
		if m.focus < fieldCount-1 {
			return m, m.setFormFocus(m.focus + 1)
		}
		return m.saveForm()
	}

	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m AdminModel) saveForm() (tea.Model, tea.Cmd) {
	p, err := m.parseForm()
	if err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}

	if m.editing {
		err = m.mgr.Update(p)
	} else {
		err = m.mgr.Add(p)
	}
	if err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}

	verb := "added"
	if m.editing {
		verb = "updated"
	}
	m.status = successStyle.Render(fmt.Sprintf("%s %s %s", verb, p.SKU, p.Name))
	m.mode = AdminList
	m.refreshItems()
	return m, nil
}

func (m AdminModel) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = AdminList
		return m, nil
	}
	decided, confirmed := m.confirmation.Update(msg)
	if !decided {
		return m, nil
	}
	m.mode = AdminList
	if !confirmed {
		return m, nil
	}

	if err := m.mgr.Remove(m.deleteSKU); err != nil {
		m.status = dangerStyle.Render(err.Error())
		return m, nil
	}
	m.status = mutedStyle.Render("removed " + m.deleteSKU)
	m.refreshItems()
	return m, nil
}

func (m AdminModel) categorySummary() string {
	categories, err := m.mgr.Categories()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d products • %d/%d categories",
		len(m.list.Items()), len(categories), catalog.MaxCategories)
}

// View renders the UI
func (m AdminModel) View() string {
	switch m.mode {
	case AdminForm:
		title := "Add Product"
		if m.editing {
			title = "Edit Product"
		}

		var b strings.Builder
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
		for i := range m.form {
			label := fieldLabels[i]
			if m.editing && i == fieldSKU {
				label += " (key)"
			}
			b.WriteString(fmt.Sprintf("%-26s %s\n", mutedStyle.Render(label), m.form[i].View()))
		}
		if m.status != "" {
			b.WriteString("\n")
			b.WriteString(m.status)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(
			FormatKey("tab", "next field") + " • " +
				FormatKey("enter", "next / save on last") + " • " +
				FormatKey("esc", "cancel"),
		))
		return b.String()

	case AdminDelete:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())

	default:
		parts := []string{m.list.View(), subtitleStyle.Render(m.categorySummary())}
		if m.status != "" {
			parts = append(parts, m.status)
		}
		parts = append(parts, helpStyle.Render(
			FormatKey("a", "add")+" • "+
				FormatKey("e", "edit")+" • "+
				FormatKey("d", "delete")+" • "+
				FormatKey("/", "search")+" • "+
				FormatKey("esc", "back"),
		))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
}

// RunAdmin starts the product management flow.
func RunAdmin(mgr *catalog.Manager) error {
	p := tea.NewProgram(NewAdminModel(mgr))
	_, err := p.Run()
	return err
}
