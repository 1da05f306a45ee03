package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/newthinker/fxagents/internal/collector"
	"github.com/newthinker/fxagents/internal/collector/yahoo"
	"github.com/newthinker/fxagents/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fxagents",
	Short: "fxagents - forex market data and trade-result analytics",
	Long: `fxagents serves forex OHLC tables and candlestick charts, optional LLM market
analysis, and profit/loss analytics over uploaded trade-result files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine, a malformed one is not
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file when one is given, otherwise the defaults plus the
// environment, and validates the result.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		cfg.ApplyEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newCollector registers the available market-data collectors and returns the configured one.
func newCollector(cfg config.MarketConfig) (collector.Collector, error) {
	reg := collector.NewRegistry()
	reg.Register(yahoo.New(yahoo.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		RatePerSec: cfg.RatePerSec,
		Burst:      cfg.Burst,
	}))
	return reg.Lookup(cfg.Provider)
}
