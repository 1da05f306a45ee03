package view

import "github.com/newthinker/fxagents/internal/core"

// Market bundles the three projections of one bar series
type Market struct {
	Table   *Table   `json:"table"`
	Chart   *Chart   `json:"chart"`
	Summary *Summary `json:"summary"`
}

// Build projects bars into table, chart and summary. No weekday bars returns ErrEmptyInput.
func Build(symbol string, tf core.Timeframe, bars []core.OHLCV) (*Market, error) {
	table, err := FormatTable(bars, tf)
	if err != nil {
		return nil, err
	}
	chart, err := BuildChart(symbol, tf, bars)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(symbol, tf, bars)
	if err != nil {
		return nil, err
	}
	return &Market{Table: table, Chart: chart, Summary: summary}, nil
}
