package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/cmd/kiosk/output"
	"github.com/ferngrove/kiosk/cmd/kiosk/tui"
	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/checkout"
	"github.com/ferngrove/kiosk/pkg/promo"
	"github.com/ferngrove/kiosk/pkg/session"
	"github.com/ferngrove/kiosk/pkg/storage"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Open the interactive store terminal",
	Long: `Open the Ferngrove Market terminal: sign in, browse the catalog, fill a
cart and check out. Admin accounts land in product management instead.`,
	RunE: runShop,
}

func init() {
	rootCmd.AddCommand(shopCmd)
}

func runShop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := openData(cfg)
	if err != nil {
		return err
	}

	accounts := account.NewService(data.Users, data.Membership, cfg.Rates())
	engine := checkout.NewEngine(data.Products, data.Users, data.Orders, promo.Default(), cfg.Policy())
	manager := catalog.NewManager(data.Products)

	for {
		user, err := tui.RunLogin(accounts)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}

		sess := session.New(user)
		var quit bool
		if sess.IsAdmin() {
			quit, err = adminLoop(sess, manager)
		} else {
			quit, err = customerLoop(sess, data, engine, accounts)
		}
		if err != nil {
			return err
		}
		output.Info("Signed out %s", user.Email)
		if quit {
			return nil
		}
	}
}

// customerLoop runs the signed-in customer menu until logout or quit.
func customerLoop(sess *session.Session, data *storage.Data, engine *checkout.Engine, accounts *account.Service) (bool, error) {
	for {
		entries := []tui.MenuEntry{
			{Key: "browse", Number: 1, Label: "Browse & Shop", Desc: "search the catalog and fill your cart"},
			{Key: "cart", Number: 2, Label: "Cart & Checkout", Desc: fmt.Sprintf("%d units in cart", sess.Cart.Units())},
			{Key: "profile", Number: 3, Label: "Profile & Membership", Desc: "funds, VIP, history, account details"},
			{Key: "logout", Number: 4, Label: "Log out"},
		}
		status := fmt.Sprintf("%s  •  funds %s", sess.User.DisplayName(), output.Money(sess.User.Funds))

		choice, quit, err := tui.RunMenu("Ferngrove Market", status, entries)
		if err != nil || quit {
			return quit, err
		}

		switch choice {
		case "browse":
			products, err := data.Products.LoadAll()
			if err != nil {
				return false, err
			}
			if err := tui.RunBrowse(sess, products); err != nil {
				return false, err
			}

		case "cart":
			proceed, err := tui.RunCart(sess, data.Products.FindBySKU)
			if err != nil {
				return false, err
			}
			if !proceed {
				continue
			}
			stores, err := data.Stores.LoadAll()
			if err != nil {
				return false, err
			}
			if _, err := tui.RunCheckout(sess, engine, stores); err != nil {
				return false, err
			}

		case "profile":
			if err := tui.RunProfile(sess, accounts, data.Orders, data.Membership); err != nil {
				return false, err
			}

		case "", "logout":
			return false, nil
		}
	}
}

// adminLoop runs the signed-in admin menu until logout or quit.
func adminLoop(sess *session.Session, manager *catalog.Manager) (bool, error) {
	for {
		entries := []tui.MenuEntry{
			{Key: "products", Number: 1, Label: "Product & Inventory", Desc: "add, edit and remove products"},
			{Key: "logout", Number: 2, Label: "Log out"},
		}
		status := fmt.Sprintf("%s  •  admin", sess.User.DisplayName())

		choice, quit, err := tui.RunMenu("Ferngrove Market Admin", status, entries)
		if err != nil || quit {
			return quit, err
		}

		switch choice {
		case "products":
			if err := tui.RunAdmin(manager); err != nil {
				return false, err
			}
		case "", "logout":
			return false, nil
		}
	}
}
