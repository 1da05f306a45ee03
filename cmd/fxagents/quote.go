package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/logger"
	"github.com/newthinker/fxagents/internal/market"
	"github.com/newthinker/fxagents/internal/view"
	"github.com/spf13/cobra"
)

var (
	quoteTimeframe string
	quoteDays      int
	quoteRows      int
)

var quoteCmd = &cobra.Command{
	Use:   "quote [symbol]",
	Short: "Fetch recent bars for a pair and print the table and summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteTimeframe, "timeframe", "t", string(core.Timeframe1d), "Bar interval: 1h, 4h or 1d")
	quoteCmd.Flags().IntVar(&quoteDays, "days", 5, "Days of history to fetch")
	quoteCmd.Flags().IntVar(&quoteRows, "rows", 20, "Most recent rows to print (0 prints all)")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	col, err := newCollector(cfg.Market)
	if err != nil {
		return fmt.Errorf("market collector: %w", err)
	}
	provider := market.NewProvider(col, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tf := core.ParseTimeframe(quoteTimeframe)
	series := provider.GetSeries(ctx, args[0], tf, quoteDays)
	if series.Err != nil {
		return series.Err
	}
	m, err := view.Build(series.Symbol, tf, series.Bars)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s (%s, upstream %s) ===\n", series.Symbol, tf, series.Upstream)
	rows := m.Table.Rows
	if quoteRows > 0 && len(rows) > quoteRows {
		rows = rows[len(rows)-quoteRows:]
	}
	fmt.Println(strings.Join(m.Table.Columns, "\t"))
	for _, row := range rows {
		fmt.Println(strings.Join(row.Cells(), "\t"))
	}
	fmt.Println()

	s := m.Summary
	fmt.Printf("Period:  %s to %s\n", s.PeriodStart, s.PeriodEnd)
	fmt.Printf("Open:    %.5f\n", s.OpenFirst)
	fmt.Printf("Close:   %.5f\n", s.CloseLast)
	fmt.Printf("High:    %.5f\n", s.HighMax)
	fmt.Printf("Low:     %.5f\n", s.LowMin)
	fmt.Printf("Change:  %+.5f (%+.2f%%)\n", s.Change, s.ChangePct)
	return nil
}
