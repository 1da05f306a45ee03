package view

import (
	"fmt"

	"github.com/newthinker/fxagents/internal/core"
)

// Chart holds candlestick arrays, one entry per weekday bar
type Chart struct {
	Title string    `json:"title"`
	X     []string  `json:"x"`
	Open  []float64 `json:"open"`
	High  []float64 `json:"high"`
	Low   []float64 `json:"low"`
	Close []float64 `json:"close"`
}

// BuildChart drops weekend bars and returns the candlestick arrays.
// No bars left returns ErrEmptyInput.
func BuildChart(symbol string, tf core.Timeframe, bars []core.OHLCV) (*Chart, error) {
	bars = Weekdays(bars)
	if len(bars) == 0 {
		return nil, core.ErrEmptyInput
	}

	layout := timeLayout(tf)
	c := &Chart{
		Title: fmt.Sprintf("%s - %s", symbol, tf),
		X:     make([]string, 0, len(bars)),
		Open:  make([]float64, 0, len(bars)),
		High:  make([]float64, 0, len(bars)),
		Low:   make([]float64, 0, len(bars)),
		Close: make([]float64, 0, len(bars)),
	}
	for _, b := range bars {
		c.X = append(c.X, b.Time.Format(layout))
		c.Open = append(c.Open, b.Open)
		c.High = append(c.High, b.High)
		c.Low = append(c.Low, b.Low)
		c.Close = append(c.Close, b.Close)
	}
	return c, nil
}

// Summary describes the price move across a bar series
type Summary struct {
	Symbol      string  `json:"symbol"`
	Timeframe   string  `json:"timeframe"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	OpenFirst   float64 `json:"open_first"`
	CloseLast   float64 `json:"close_last"`
	HighMax     float64 `json:"high_max"`
	LowMin      float64 `json:"low_min"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
}

// Summarize computes first open, last close, extremes and the change over weekday bars.
// No bars left returns ErrEmptyInput. ChangePct is zero when the first open is zero.
func Summarize(symbol string, tf core.Timeframe, bars []core.OHLCV) (*Summary, error) {
	bars = Weekdays(bars)
	if len(bars) == 0 {
		return nil, core.ErrEmptyInput
	}

	first, last := bars[0], bars[len(bars)-1]
	layout := timeLayout(tf)
	s := &Summary{
		Symbol:      symbol,
		Timeframe:   string(tf),
		PeriodStart: first.Time.Format(layout),
		PeriodEnd:   last.Time.Format(layout),
		OpenFirst:   first.Open,
		CloseLast:   last.Close,
		HighMax:     first.High,
		LowMin:      first.Low,
	}
	for _, b := range bars[1:] {
		if b.High > s.HighMax {
			s.HighMax = b.High
		}
		if b.Low < s.LowMin {
			s.LowMin = b.Low
		}
	}

	s.Change = s.CloseLast - s.OpenFirst
	if s.OpenFirst != 0 {
		s.ChangePct = s.Change / s.OpenFirst * 100
	}
	return s, nil
}
