package market

import (
	"time"

	"github.com/newthinker/fxagents/internal/core"
)

// resample folds consecutive bars into buckets of the given width, aligned to midnight in
// each bar's own location. Input must be oldest first.
func resample(bars []core.OHLCV, width time.Duration, interval string) []core.OHLCV {
	if len(bars) == 0 {
		return nil
	}

	out := make([]core.OHLCV, 0, len(bars)/int(width/time.Hour)+1)
	var cur *core.OHLCV
	for _, b := range bars {
		start := bucketStart(b.Time, width)
		if cur == nil || !cur.Time.Equal(start) {
			out = append(out, core.OHLCV{
				Symbol:   b.Symbol,
				Interval: interval,
				Open:     b.Open,
				High:     b.High,
				Low:      b.Low,
				Close:    b.Close,
				Volume:   b.Volume,
				Time:     start,
			})
			cur = &out[len(out)-1]
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	return out
}

func bucketStart(t time.Time, width time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	return midnight.Add(offset - offset%width)
}
