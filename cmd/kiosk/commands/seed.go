package commands

import (
	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/cmd/kiosk/output"
)

var (
	// Seed flags
	seedDemo  bool
	seedForce bool
)

// seedCmd seeds the data directory
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the data directory with default accounts and stores",
	Long: `Seed the data directory with the default accounts and pickup stores,
and optionally a demo product catalog.

Seeding is idempotent: existing users and stores are left alone unless
--force is given. Order and membership history is never touched.

Examples:
  kiosk seed                 # Default accounts and stores, if missing
  kiosk seed --demo          # Also seed a demo product catalog
  kiosk seed --demo --force  # Reset accounts, stores and products`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Seed a demo product catalog")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Overwrite existing users, stores and products")
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := openData(cfg)
	if err != nil {
		return err
	}

	if err := data.Seed(seedDemo, seedForce); err != nil {
		return err
	}

	output.Success("Seeded %s: %d users, %d stores, %d products",
		cfg.DataDir, data.Users.Len(), data.Stores.Len(), data.Products.Len())
	return nil
}
