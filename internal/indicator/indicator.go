// Package indicator computes trend and momentum figures over closing prices.
package indicator

import "math"

// SMA calculates the simple moving average.
// The result has len(prices)-period+1 values, or none when there is not enough data.
func SMA(prices []float64, period int) []float64 {
	if period < 1 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}
	return result
}

// EMA calculates the exponential moving average, seeded with the SMA of the first period.
func EMA(prices []float64, period int) []float64 {
	if period < 1 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result = append(result, ema)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result = append(result, ema)
	}
	return result
}

// RSI calculates Wilder's relative strength index.
// The result has len(prices)-period values in [0, 100].
func RSI(prices []float64, period int) []float64 {
	if period < 1 || len(prices) <= period {
		return []float64{}
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	result := make([]float64, 0, len(prices)-period)
	result = append(result, rsi(gain, loss))
	for i := period + 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		gain = (gain*float64(period-1) + math.Max(d, 0)) / float64(period)
		loss = (loss*float64(period-1) + math.Max(-d, 0)) / float64(period)
		result = append(result, rsi(gain, loss))
	}
	return result
}

func rsi(gain, loss float64) float64 {
	if loss == 0 {
		if gain == 0 {
			return 50
		}
		return 100
	}
	return 100 - 100/(1+gain/loss)
}

// Snapshot is the latest value of each indicator. A field is nil when the series is too short.
type Snapshot struct {
	SMAFast *float64
	SMASlow *float64
	EMA     *float64
	RSI     *float64
}

const (
	FastPeriod = 5
	SlowPeriod = 20
	EMAPeriod  = 10
	RSIPeriod  = 14
)

// Latest computes the snapshot for closes ordered oldest first.
func Latest(closes []float64) Snapshot {
	return Snapshot{
		SMAFast: last(SMA(closes, FastPeriod)),
		SMASlow: last(SMA(closes, SlowPeriod)),
		EMA:     last(EMA(closes, EMAPeriod)),
		RSI:     last(RSI(closes, RSIPeriod)),
	}
}

// Empty reports whether no indicator had enough data
func (s Snapshot) Empty() bool {
	return s.SMAFast == nil && s.SMASlow == nil && s.EMA == nil && s.RSI == nil
}

func last(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	return &v
}
