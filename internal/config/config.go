package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Contract Contract `mapstructure:"contract"`
	Logger   Logger   `mapstructure:"logger"`
	Database Database `mapstructure:"database"`
}

// Contract holds the principals and accounts of the deployed contract.
type Contract struct {
	// LedgerOwner registers symbols, opens accounts, and moves funds
	// under the custodial transfer policy.
	LedgerOwner string `mapstructure:"ledger_owner"`
	// AuctionOwner operates auctions and custodially holds escrowed bids.
	AuctionOwner string `mapstructure:"auction_owner"`
	// Accounts is the set of resolvable principals, standing in for the
	// host's account-existence lookup.
	Accounts []string `mapstructure:"accounts"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("contract.ledger_owner", "getbit")
	viper.SetDefault("contract.auction_owner", "getbit")
	viper.SetDefault("database.dsn", "getbit.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
