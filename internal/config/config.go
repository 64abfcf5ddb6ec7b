package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultURL is the NADAC comparison dataset the report is built from.
const DefaultURL = "https://download.medicaid.gov/data/nadac-comparison-04-17-2024.csv"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	URL          string
	Count        int
	Year         int
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Out          string
	PGDSN        string
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("url", DefaultURL)
	v.SetDefault("count", 10)
	v.SetDefault("year", 2023)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		URL:          v.GetString("url"),
		Count:        v.GetInt("count"),
		Year:         v.GetInt("year"),
		Timeout:      v.GetDuration("timeout"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
