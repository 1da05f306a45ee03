package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/newthinker/fxagents/internal/trades"
	"github.com/shopspring/decimal"
)

// Granularity is a calendar bucket size for profit/loss rollups
type Granularity string

const (
	Monthly    Granularity = "monthly"
	Quarterly  Granularity = "quarterly"
	SemiAnnual Granularity = "semiannual"
	Annual     Granularity = "annual"
)

// Granularities lists every rollup size, finest first
var Granularities = []Granularity{Monthly, Quarterly, SemiAnnual, Annual}

// ParseGranularity maps a name to a granularity
func ParseGranularity(s string) (Granularity, bool) {
	for _, g := range Granularities {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// PeriodAggregate is one rollup row.
// Profit sums positive max results; Loss is the absolute sum of negative ones.
type PeriodAggregate struct {
	Period string  `json:"period"`
	Profit float64 `json:"profit"`
	Loss   float64 `json:"loss"`
}

// periodKey orders buckets: year, then the index within the year.
type periodKey struct {
	year  int
	index int
}

func periodOf(d time.Time, g Granularity) periodKey {
	month := int(d.Month())
	switch g {
	case Quarterly:
		return periodKey{d.Year(), (month-1)/3 + 1}
	case SemiAnnual:
		return periodKey{d.Year(), (month-1)/6 + 1}
	case Annual:
		return periodKey{d.Year(), 0}
	default:
		return periodKey{d.Year(), month}
	}
}

func (k periodKey) label(g Granularity) string {
	switch g {
	case Quarterly:
		return fmt.Sprintf("%d-T%d", k.year, k.index)
	case SemiAnnual:
		return fmt.Sprintf("%d-S%d", k.year, k.index)
	case Annual:
		return fmt.Sprintf("%d", k.year)
	default:
		return fmt.Sprintf("%d-%02d", k.year, k.index)
	}
}

type bucket struct {
	profit decimal.Decimal
	loss   decimal.Decimal
}

// rollup folds records into per-period profit and loss totals, ordered by period.
// A zero result lands in its period but adds to neither total.
func rollup(records []trades.Record, g Granularity) []PeriodAggregate {
	buckets := make(map[periodKey]*bucket)
	for _, rec := range records {
		key := periodOf(rec.Date, g)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}

		v := decimal.NewFromFloat(rec.MaxResult)
		switch v.Sign() {
		case 1:
			b.profit = b.profit.Add(v)
		case -1:
			b.loss = b.loss.Add(v.Neg())
		}
	}

	keys := make([]periodKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].index < keys[j].index
	})

	result := make([]PeriodAggregate, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		result = append(result, PeriodAggregate{
			Period: k.label(g),
			Profit: b.profit.InexactFloat64(),
			Loss:   b.loss.InexactFloat64(),
		})
	}
	return result
}
