package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/cmd/kiosk/output"
	"github.com/ferngrove/kiosk/pkg/checkout"
)

var (
	// Orders flags
	ordersEmail string
)

// ordersCmd groups order subcommands
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect placed orders",
}

// ordersListCmd lists placed orders, newest first
var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	Long: `List placed orders, newest first.

Examples:
  kiosk orders list                          # Every order
  kiosk orders list --email sam@example.com  # One customer
  kiosk orders list --json                   # Full order detail`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrdersList()
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)

	ordersListCmd.Flags().StringVar(&ordersEmail, "email", "", "Only orders for this customer")
}

func runOrdersList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := openData(cfg)
	if err != nil {
		return err
	}

	var orders []*checkout.Order
	if ordersEmail != "" {
		orders, err = data.Orders.ListByEmail(ordersEmail)
	} else {
		orders, err = data.Orders.All()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	}

	if len(orders) == 0 {
		output.Warning("No orders found")
		return nil
	}

	output.Section(fmt.Sprintf("Orders (%d)", len(orders)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ORDER\tPLACED\tEMAIL\tFULFILMENT\tUNITS\tTOTAL")
	_, _ = fmt.Fprintln(w, "-----\t------\t-----\t----------\t-----\t-----")
	for _, o := range orders {
		where := string(o.Fulfilment)
		if o.Fulfilment == checkout.Pickup {
			where = fmt.Sprintf("%s %s", o.Fulfilment, o.StoreID)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			o.ID, o.PlacedAt.Format("2006-01-02 15:04"), o.Email,
			where, o.Units(), output.Money(o.Total))
	}
	return w.Flush()
}
