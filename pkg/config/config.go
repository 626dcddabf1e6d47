// Package config resolves kiosk settings from defaults, an optional
// YAML file, and KIOSK_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/checkout"
)

// Config carries the runtime settings.
type Config struct {
	DataDir string  `mapstructure:"data_dir"`
	Pricing Pricing `mapstructure:"pricing"`
	Account Account `mapstructure:"account"`
}

// Pricing holds the checkout constants.
type Pricing struct {
	DeliveryFee float64 `mapstructure:"delivery_fee"`
	StudentRate float64 `mapstructure:"student_rate"`
}

// Account holds the account money settings.
type Account struct {
	VIPYearPrice float64 `mapstructure:"vip_year_price"`
	TopUpMax     float64 `mapstructure:"top_up_max"`
	InitialFunds float64 `mapstructure:"initial_funds"`
}

// Load resolves configuration. file may be empty; later sources win:
// defaults, then the file, then KIOSK_* environment variables.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", "./data")
	v.SetDefault("pricing.delivery_fee", 20.0)
	v.SetDefault("pricing.student_rate", 0.05)
	v.SetDefault("account.vip_year_price", 20.0)
	v.SetDefault("account.top_up_max", 1000.0)
	v.SetDefault("account.initial_funds", 1000.0)

	v.SetEnvPrefix("KIOSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Policy returns the checkout pricing policy.
func (c *Config) Policy() checkout.Policy {
	return checkout.Policy{
		DeliveryFee: decimal.NewFromFloat(c.Pricing.DeliveryFee),
		StudentRate: decimal.NewFromFloat(c.Pricing.StudentRate),
	}
}

// Rates returns the account money settings.
func (c *Config) Rates() account.Rates {
	return account.Rates{
		VIPYearPrice: decimal.NewFromFloat(c.Account.VIPYearPrice),
		TopUpMax:     decimal.NewFromFloat(c.Account.TopUpMax),
		InitialFunds: decimal.NewFromFloat(c.Account.InitialFunds),
	}
}
