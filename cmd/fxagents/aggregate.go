package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newthinker/fxagents/internal/analytics"
	"github.com/newthinker/fxagents/internal/storage/archive"
	"github.com/newthinker/fxagents/internal/trades"
	"github.com/spf13/cobra"
)

var (
	aggregateFrom        string
	aggregateTo          string
	aggregateGranularity string
	aggregateJSON        bool
	aggregateArchived    string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [file]",
	Short: "Aggregate a trade-result file into period profit and loss",
	Long: `Parse a trade-result file (.csv, .xlsx or .xls) and print its profit and loss
per period, the efficiency tally and the cumulative result.

With --archived the file is read from the configured upload archive instead of the
local disk: pass the upload id to --archived and the original filename as the argument.`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateFrom, "from", "", "Start date YYYY-MM-DD (inclusive)")
	aggregateCmd.Flags().StringVar(&aggregateTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	aggregateCmd.Flags().StringVarP(&aggregateGranularity, "granularity", "g", string(analytics.Monthly),
		"Period: monthly, quarterly, semiannual or annual")
	aggregateCmd.Flags().BoolVar(&aggregateJSON, "json", false, "Print the full chart payload as JSON")
	aggregateCmd.Flags().StringVar(&aggregateArchived, "archived", "", "Upload id to read the file from the archive")
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	g, ok := analytics.ParseGranularity(aggregateGranularity)
	if !ok {
		return fmt.Errorf("unknown granularity %q", aggregateGranularity)
	}
	rng, err := analytics.ParseDateRange(aggregateFrom, aggregateTo)
	if err != nil {
		return err
	}

	data, err := readAggregateInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	ds, err := trades.Ingest(filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	report := analytics.Aggregate(ds.Rows, rng)
	if aggregateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.ChartData())
	}

	fmt.Println("=== fxagents Aggregate ===")
	fmt.Printf("File:      %s (%s, separator %s)\n", ds.Filename, ds.Format, ds.SeparatorLabel())
	fmt.Printf("Rows:      %d\n", ds.Len())
	fmt.Printf("Records:   %d\n", report.TotalRecords)
	if report.Empty() {
		fmt.Println("No records in the selected period.")
		return nil
	}

	last := report.History.Cumulative[len(report.History.Cumulative)-1]
	fmt.Printf("Period:    %s to %s\n", report.History.Dates[0], report.History.Dates[len(report.History.Dates)-1])
	fmt.Printf("Result:    %.2f\n", last)
	fmt.Printf("Positive:  %d\n", report.Efficiency.Positive)
	fmt.Printf("Negative:  %d\n", report.Efficiency.Negative)
	fmt.Println()

	fmt.Printf("%-10s %12s %12s %12s\n", "Period", "Profit", "Loss", "Net")
	for _, p := range report.Rollups[g] {
		fmt.Printf("%-10s %12.2f %12.2f %12.2f\n", p.Period, p.Profit, p.Loss, p.Profit-p.Loss)
	}
	return nil
}

func readAggregateInput(ctx context.Context, filename string) ([]byte, error) {
	if aggregateArchived == "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		return data, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	archiver, err := archive.New(cfg.Upload.Archive)
	if err != nil {
		return nil, fmt.Errorf("upload archive: %w", err)
	}
	return archiver.Load(ctx, aggregateArchived, filename)
}
