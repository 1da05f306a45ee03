package core

import "time"

// Timeframe is the bar interval selector exposed to users
type Timeframe string

const (
	Timeframe1h Timeframe = "1h"
	Timeframe4h Timeframe = "4h"
	Timeframe1d Timeframe = "1d"
)

// ParseTimeframe maps user input to a supported timeframe. Unknown values fall back to daily.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case Timeframe1h, Timeframe4h:
		return Timeframe(s)
	default:
		return Timeframe1d
	}
}

// Intraday reports whether bars of this timeframe carry a meaningful time of day
func (t Timeframe) Intraday() bool {
	return t == Timeframe1h || t == Timeframe4h
}

// Quote represents the latest known price of an instrument
type Quote struct {
	Symbol string
	Price  float64
	Time   time.Time
	Source string
}

// IsValid checks if the quote has required fields
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

// OHLCV represents a candlestick/bar.
// Time is expressed in the exchange's local time zone when the upstream reports one.
type OHLCV struct {
	Symbol   string
	Interval string // "1h", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
	Time     time.Time
}

// IsWeekend reports whether the bar falls on a Saturday or Sunday
func (b OHLCV) IsWeekend() bool {
	wd := b.Time.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
