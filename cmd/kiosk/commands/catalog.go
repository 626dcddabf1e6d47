package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/cmd/kiosk/output"
	"github.com/ferngrove/kiosk/pkg/catalog"
)

var (
	// Catalog flags
	filterCategory    string
	filterSubcategory string
	filterBrand       string
	filterMinPrice    string
	filterMaxPrice    string
	filterInStock     bool
)

// catalogCmd groups catalog subcommands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

// catalogListCmd lists products without entering the TUI
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List catalog products with optional filters.

Examples:
  kiosk catalog list                          # Everything, in-stock first
  kiosk catalog list --category Pantry        # One category
  kiosk catalog list --max-price 10 --in-stock
  kiosk catalog list --json                   # Machine-readable output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalogList()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogListCmd.Flags().StringVar(&filterCategory, "category", "", "Filter by category")
	catalogListCmd.Flags().StringVar(&filterSubcategory, "subcategory", "", "Filter by subcategory")
	catalogListCmd.Flags().StringVar(&filterBrand, "brand", "", "Filter by brand")
	catalogListCmd.Flags().StringVar(&filterMinPrice, "min-price", "", "Minimum regular price")
	catalogListCmd.Flags().StringVar(&filterMaxPrice, "max-price", "", "Maximum regular price")
	catalogListCmd.Flags().BoolVar(&filterInStock, "in-stock", false, "Only products with stock on hand")
}

func buildFilter() (catalog.Filter, error) {
	f := catalog.Filter{
		Category:    filterCategory,
		Subcategory: filterSubcategory,
		Brand:       filterBrand,
		InStockOnly: filterInStock,
	}
	if filterMinPrice != "" {
		min, err := decimal.NewFromString(filterMinPrice)
		if err != nil {
			return f, fmt.Errorf("invalid --min-price %q", filterMinPrice)
		}
		f.MinPrice = &min
	}
	if filterMaxPrice != "" {
		max, err := decimal.NewFromString(filterMaxPrice)
		if err != nil {
			return f, fmt.Errorf("invalid --max-price %q", filterMaxPrice)
		}
		f.MaxPrice = &max
	}
	return f, nil
}

func runCatalogList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := openData(cfg)
	if err != nil {
		return err
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	products, err := data.Products.LoadAll()
	if err != nil {
		return err
	}
	products = catalog.Apply(products, filter)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	if len(products) == 0 {
		output.Warning("No products match")
		return nil
	}

	output.Section(fmt.Sprintf("Catalog (%d products)", len(products)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SKU\tNAME\tBRAND\tCATEGORY\tPRICE\tVIP\tSTOCK")
	_, _ = fmt.Fprintln(w, "---\t----\t-----\t--------\t-----\t---\t-----")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			p.SKU, p.Name, p.Brand, p.Category,
			output.Money(p.Price), output.Money(p.VIPPrice), p.Stock)
	}
	return w.Flush()
}
