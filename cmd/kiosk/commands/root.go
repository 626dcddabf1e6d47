package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferngrove/kiosk/pkg/config"
	"github.com/ferngrove/kiosk/pkg/storage"
)

var (
	// Global flags
	dataDir    string
	configFile string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Ferngrove Market self-service terminal",
	Long: `Kiosk is the Ferngrove Market self-service store terminal: browse the
catalog, fill a cart, and check out with member pricing, student discounts
and promotion codes. Admins manage products from the same terminal.

Everything is stored in plain CSV files under the data directory, so a
seeded directory is all the setup the terminal needs.

Features:
  - Interactive shopping TUI and non-interactive CLI listings
  - VIP membership with member prices on every product
  - Student pickup discount and promotion codes
  - Admin product and inventory management
  - CSV flat-file storage, no server required`,
	Version: "1.4.2",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Directory holding the CSV data files")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig reads the config file and environment, with the --data-dir
// flag taking precedence when set explicitly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if rootCmd.PersistentFlags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// openData opens the CSV stores, seeding defaults on first run.
func openData(cfg *config.Config) (*storage.Data, error) {
	return storage.Open(cfg.DataDir)
}
