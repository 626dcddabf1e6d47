package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/cmd/kiosk/output"
)

// storesCmd groups store subcommands
var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Inspect pickup stores",
}

// storesListCmd lists the pickup stores
var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pickup stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStoresList()
	},
}

func init() {
	rootCmd.AddCommand(storesCmd)
	storesCmd.AddCommand(storesListCmd)
}

func runStoresList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := openData(cfg)
	if err != nil {
		return err
	}

	stores, err := data.Stores.LoadAll()
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stores)
	}

	if len(stores) == 0 {
		output.Warning("No stores configured")
		return nil
	}

	output.Section(fmt.Sprintf("Stores (%d)", len(stores)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tADDRESS\tPHONE\tHOURS")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t-----\t-----")
	for _, s := range stores {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Address, s.Phone, s.Hours)
	}
	return w.Flush()
}
