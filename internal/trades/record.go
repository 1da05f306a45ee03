// Package trades parses uploaded trade-result files into datasets and keeps them in memory.
package trades

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical column names of an uploaded trade file
const (
	ColDate          = "date"
	ColMinPointsGain = "min_points_gain"
	ColMaxPointsGain = "max_points_gain"
	ColMinPointsStop = "min_points_stop"
	ColMaxPointsStop = "max_points_stop"
	ColMinResult     = "min_result"
	ColMaxResult     = "max_result"
)

// RequiredColumns lists every column an upload must carry, in display order.
var RequiredColumns = []string{
	ColDate,
	ColMinPointsGain,
	ColMaxPointsGain,
	ColMinPointsStop,
	ColMaxPointsStop,
	ColMinResult,
	ColMaxResult,
}

// columnAliases maps the legacy Portuguese headers to canonical names.
var columnAliases = map[string]string{
	"data":          ColDate,
	"min_pts_gain":  ColMinPointsGain,
	"max_pts_gain":  ColMaxPointsGain,
	"min_pts_stop":  ColMinPointsStop,
	"max_pts_stop":  ColMaxPointsStop,
	"min_resultado": ColMinResult,
	"max_resultado": ColMaxResult,
}

// Row holds the raw cell text of one uploaded record.
// Values are kept as uploaded; typing happens in Record.
type Row struct {
	Date          string `json:"date"`
	MinPointsGain string `json:"min_points_gain"`
	MaxPointsGain string `json:"max_points_gain"`
	MinPointsStop string `json:"min_points_stop"`
	MaxPointsStop string `json:"max_points_stop"`
	MinResult     string `json:"min_result"`
	MaxResult     string `json:"max_result"`
}

// Values returns the cells in RequiredColumns order.
func (r Row) Values() []string {
	return []string{r.Date, r.MinPointsGain, r.MaxPointsGain, r.MinPointsStop, r.MaxPointsStop, r.MinResult, r.MaxResult}
}

func (r *Row) set(column, value string) {
	switch column {
	case ColDate:
		r.Date = value
	case ColMinPointsGain:
		r.MinPointsGain = value
	case ColMaxPointsGain:
		r.MaxPointsGain = value
	case ColMinPointsStop:
		r.MinPointsStop = value
	case ColMaxPointsStop:
		r.MaxPointsStop = value
	case ColMinResult:
		r.MinResult = value
	case ColMaxResult:
		r.MaxResult = value
	}
}

// Record is a typed trade row. MaxResult is the canonical profit/loss value.
type Record struct {
	Date          time.Time
	MinPointsGain float64
	MaxPointsGain float64
	MinPointsStop float64
	MaxPointsStop float64
	MinResult     float64
	MaxResult     float64
}

// Record converts the row to typed values. ok is false when the date cannot be parsed.
// Numeric cells that do not parse become zero.
func (r Row) Record() (rec Record, ok bool) {
	date, ok := ParseDate(r.Date)
	if !ok {
		return Record{}, false
	}
	return Record{
		Date:          date,
		MinPointsGain: ParseNumber(r.MinPointsGain),
		MaxPointsGain: ParseNumber(r.MaxPointsGain),
		MinPointsStop: ParseNumber(r.MinPointsStop),
		MaxPointsStop: ParseNumber(r.MaxPointsStop),
		MinResult:     ParseNumber(r.MinResult),
		MaxResult:     ParseNumber(r.MaxResult),
	}, true
}

// dateLayouts are tried in order. Slashed dates are day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate parses a calendar date, discarding any time of day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces a cell to float64; anything unparseable or non-finite is zero.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
