package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/storage"
)

// ConfirmationDialog is a yes/no prompt. The parent model owns the mode
// switching; Update only reports whether a decision was made.
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
}

// NewConfirmationDialog creates a dialog with No preselected.
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:   title,
		Message: message,
	}
}

// Update handles dialog keys. decided is true once the user pressed
// enter; confirmed reports which button was active.
func (d *ConfirmationDialog) Update(msg tea.Msg) (decided, confirmed bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, false
	}
	switch key.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "y":
		d.YesSelected = true
		return true, true
	case "n":
		return true, false
	case "enter":
		return true, d.YesSelected
	}
	return false, false
}

// View renders the dialog.
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")
	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "cancel")))

	return boxStyle.Render(b.String())
}

// ProductItem adapts a catalog product for the browse and admin lists.
type ProductItem struct {
	Product   *catalog.Product
	VIPActive bool
}

func (i ProductItem) FilterValue() string {
	return i.Product.Name + " " + i.Product.Brand + " " + i.Product.Category
}

func (i ProductItem) Title() string {
	return fmt.Sprintf("%s  %s", i.Product.SKU, i.Product.Name)
}

func (i ProductItem) Description() string {
	price := priceStyle.Render(FormatMoney(i.Product.Price))
	vip := vipPriceStyle.Render("VIP " + FormatMoney(i.Product.VIPPrice))
	if i.VIPActive {
		price = mutedStyle.Render(FormatMoney(i.Product.Price))
		vip = vipPriceStyle.Render("VIP " + FormatMoney(i.Product.VIPPrice) + " ←")
	}
	line := fmt.Sprintf("%s  %s  %s  %s", price, vip, FormatStock(i.Product.Stock), mutedStyle.Render(i.Product.Brand))
	if i.Product.Perishable && i.Product.ExpiryDate != "" {
		line += mutedStyle.Render("  exp " + i.Product.ExpiryDate)
	}
	return line
}

// ProductDelegate renders two-line product rows.
type ProductDelegate struct{}

func (d ProductDelegate) Height() int                             { return 2 }
func (d ProductDelegate) Spacing() int                            { return 1 }
func (d ProductDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d ProductDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ProductItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ "+i.Title()) + "\n" + selectedItemStyle.Render("  "+i.Description())
	} else {
		s = unselectedItemStyle.Render(i.Title()) + "\n" + unselectedItemStyle.Render(i.Description())
	}
	_, _ = fmt.Fprint(w, s)
}

// MenuEntry is one numbered menu row. Key identifies the choice to the
// caller; Number is the shortcut digit.
type MenuEntry struct {
	Key    string
	Number int
	Label  string
	Desc   string
}

func (e MenuEntry) FilterValue() string { return e.Label }

// MenuDelegate renders numbered menu rows.
type MenuDelegate struct{}

func (d MenuDelegate) Height() int                             { return 1 }
func (d MenuDelegate) Spacing() int                            { return 0 }
func (d MenuDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d MenuDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(MenuEntry)
	if !ok {
		return
	}

	label := fmt.Sprintf("%d. %s", e.Number, e.Label)
	if e.Desc != "" {
		label += mutedStyle.Render("  — " + e.Desc)
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, selectedItemStyle.Render("▸ "+label))
		return
	}
	_, _ = fmt.Fprint(w, unselectedItemStyle.Render(label))
}

// StoreItem adapts a pickup store for selection lists.
type StoreItem struct {
	Store *storage.StoreLocation
}

func (i StoreItem) FilterValue() string { return i.Store.Name }

func (i StoreItem) Title() string {
	return fmt.Sprintf("%s  %s", i.Store.ID, i.Store.Name)
}

func (i StoreItem) Description() string {
	return mutedStyle.Render(fmt.Sprintf("%s • %s • %s", i.Store.Address, i.Store.Phone, i.Store.Hours))
}

// StoreDelegate renders two-line store rows.
type StoreDelegate struct{}

func (d StoreDelegate) Height() int                             { return 2 }
func (d StoreDelegate) Spacing() int                            { return 1 }
func (d StoreDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d StoreDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(StoreItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ "+i.Title()) + "\n" + selectedItemStyle.Render("  "+i.Description())
	} else {
		s = unselectedItemStyle.Render(i.Title()) + "\n" + unselectedItemStyle.Render(i.Description())
	}
	_, _ = fmt.Fprint(w, s)
}
