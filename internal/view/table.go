// Package view shapes OHLC bar series into display-ready tables, candlestick charts and
// summary statistics.
package view

import (
	"strconv"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/shopspring/decimal"
)

// Display labels
const (
	LabelDateTime = "Date/Time"
	LabelDate     = "Date"
	LabelOpen     = "Open"
	LabelHigh     = "High"
	LabelLow      = "Low"
	LabelClose    = "Close"
	LabelVolume   = "Volume"
)

const (
	dailyLayout    = "2006-01-02"
	intradayLayout = "2006-01-02 15:04"
	pricePlaces    = 5
)

// TableRow is one formatted bar
type TableRow struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Cells renders the row as text in column order
func (r TableRow) Cells() []string {
	return []string{
		r.Time,
		strconv.FormatFloat(r.Open, 'f', -1, 64),
		strconv.FormatFloat(r.High, 'f', -1, 64),
		strconv.FormatFloat(r.Low, 'f', -1, 64),
		strconv.FormatFloat(r.Close, 'f', -1, 64),
		strconv.FormatInt(r.Volume, 10),
	}
}

// Table is a labelled bar table
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// Weekdays returns the bars that do not fall on a Saturday or Sunday, in order
func Weekdays(bars []core.OHLCV) []core.OHLCV {
	out := make([]core.OHLCV, 0, len(bars))
	for _, b := range bars {
		if !b.IsWeekend() {
			out = append(out, b)
		}
	}
	return out
}

// FormatTable drops weekend bars, formats timestamps for the timeframe and rounds prices
// to five decimal places. No bars left returns ErrEmptyInput.
func FormatTable(bars []core.OHLCV, tf core.Timeframe) (*Table, error) {
	bars = Weekdays(bars)
	if len(bars) == 0 {
		return nil, core.ErrEmptyInput
	}

	timeLabel, layout := LabelDate, dailyLayout
	if tf.Intraday() {
		timeLabel, layout = LabelDateTime, intradayLayout
	}

	t := &Table{
		Columns: []string{timeLabel, LabelOpen, LabelHigh, LabelLow, LabelClose, LabelVolume},
		Rows:    make([]TableRow, 0, len(bars)),
	}
	for _, b := range bars {
		t.Rows = append(t.Rows, TableRow{
			Time:   b.Time.Format(layout),
			Open:   roundPrice(b.Open),
			High:   roundPrice(b.High),
			Low:    roundPrice(b.Low),
			Close:  roundPrice(b.Close),
			Volume: b.Volume,
		})
	}
	return t, nil
}

func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(pricePlaces).InexactFloat64()
}

func timeLayout(tf core.Timeframe) string {
	if tf.Intraday() {
		return intradayLayout
	}
	return dailyLayout
}
