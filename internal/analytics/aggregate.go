// Package analytics turns stored trade datasets into history, rollup, efficiency and
// risk/return series.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/trades"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar-date filter. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Empty strings leave the bound open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if s := strings.TrimSpace(start); s != "" {
		if r.Start, err = time.Parse(dateLayout, s); err != nil {
			return DateRange{}, core.WrapError(core.ErrParseFailure, fmt.Errorf("start date %q: %w", s, err))
		}
	}
	if e := strings.TrimSpace(end); e != "" {
		if r.End, err = time.Parse(dateLayout, e); err != nil {
			return DateRange{}, core.WrapError(core.ErrParseFailure, fmt.Errorf("end date %q: %w", e, err))
		}
	}
	return r, nil
}

// Contains reports whether the calendar date d lies inside the range
func (r DateRange) Contains(d time.Time) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// History is the per-record result line with its running total
type History struct {
	Dates      []string  `json:"dates"`
	MinResult  []float64 `json:"min_result"`
	MaxResult  []float64 `json:"max_result"`
	Cumulative []float64 `json:"cumulative_result"`
}

// Efficiency counts winning records (max result > 0) against the rest
type Efficiency struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// RiskReturn holds the raw excursion columns, one point per record
type RiskReturn struct {
	MinPointsGain []float64 `json:"min_points_gain"`
	MinPointsStop []float64 `json:"min_points_stop"`
	MaxPointsGain []float64 `json:"max_points_gain"`
	MaxPointsStop []float64 `json:"max_points_stop"`
}

// Report is the full aggregation of one dataset under one date filter
type Report struct {
	TotalRecords int
	History      History
	Rollups      map[Granularity][]PeriodAggregate
	Efficiency   Efficiency
	RiskReturn   RiskReturn
}

// Empty reports whether no record survived filtering
func (r *Report) Empty() bool {
	return r.TotalRecords == 0
}

// Aggregate computes every series for rows within rng. Rows with unparseable dates are
// dropped; numeric cells that do not parse count as zero. rows is not modified.
func Aggregate(rows []trades.Row, rng DateRange) *Report {
	records := make([]trades.Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := row.Record()
		if !ok || !rng.Contains(rec.Date) {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	report := &Report{
		TotalRecords: len(records),
		History: History{
			Dates:      make([]string, 0, len(records)),
			MinResult:  make([]float64, 0, len(records)),
			MaxResult:  make([]float64, 0, len(records)),
			Cumulative: make([]float64, 0, len(records)),
		},
		Rollups: make(map[Granularity][]PeriodAggregate, len(Granularities)),
		RiskReturn: RiskReturn{
			MinPointsGain: make([]float64, 0, len(records)),
			MinPointsStop: make([]float64, 0, len(records)),
			MaxPointsGain: make([]float64, 0, len(records)),
			MaxPointsStop: make([]float64, 0, len(records)),
		},
	}

	running := decimal.Zero
	for _, rec := range records {
		running = running.Add(decimal.NewFromFloat(rec.MaxResult))

		report.History.Dates = append(report.History.Dates, rec.Date.Format(dateLayout))
		report.History.MinResult = append(report.History.MinResult, rec.MinResult)
		report.History.MaxResult = append(report.History.MaxResult, rec.MaxResult)
		report.History.Cumulative = append(report.History.Cumulative, running.InexactFloat64())

		if rec.MaxResult > 0 {
			report.Efficiency.Positive++
		} else {
			report.Efficiency.Negative++
		}

		report.RiskReturn.MinPointsGain = append(report.RiskReturn.MinPointsGain, rec.MinPointsGain)
		report.RiskReturn.MinPointsStop = append(report.RiskReturn.MinPointsStop, rec.MinPointsStop)
		report.RiskReturn.MaxPointsGain = append(report.RiskReturn.MaxPointsGain, rec.MaxPointsGain)
		report.RiskReturn.MaxPointsStop = append(report.RiskReturn.MaxPointsStop, rec.MaxPointsStop)
	}

	for _, g := range Granularities {
		report.Rollups[g] = rollup(records, g)
	}
	return report
}
