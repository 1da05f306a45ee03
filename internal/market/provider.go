package market

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/fxagents/internal/collector"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/newthinker/fxagents/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Series is the result of a history fetch. On any failure Bars is empty and Err says why;
// callers treat an empty series as a normal outcome.
type Series struct {
	Symbol    string         `json:"symbol"`
	Upstream  string         `json:"upstream"`
	Timeframe core.Timeframe `json:"timeframe"`
	Bars      []core.OHLCV   `json:"-"`
	Err       error          `json:"-"`
}

// Empty reports whether the series has no bars
func (s Series) Empty() bool {
	return len(s.Bars) == 0
}

// Provider fetches bar series and prices for the supported symbols
type Provider struct {
	collector collector.Collector
	logger    *zap.Logger
	metrics   *metrics.Registry
	now       func() time.Time
}

// Option configures a Provider
type Option func(*Provider)

// WithMetrics records every fetch in reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(p *Provider) {
		p.metrics = reg
	}
}

// NewProvider creates a provider on top of a collector
func NewProvider(c collector.Collector, logger *zap.Logger, opts ...Option) *Provider {
	p := &Provider{
		collector: c,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetSeries fetches roughly daysBack days of bars for symbol.
// Intraday requests look back max(7*days, 14) days and keep bars from the last daysBack days;
// daily requests look back max(3*days, 7) days to cover weekends and holidays.
// 4h bars are built from 1h bars. It never returns an error; see Series.Err.
func (p *Provider) GetSeries(ctx context.Context, symbol string, tf core.Timeframe, daysBack int) Series {
	if daysBack < 1 {
		daysBack = 1
	}
	series := Series{Symbol: DisplaySymbol(symbol), Timeframe: tf}

	upstream, err := ResolveSymbol(symbol)
	if err != nil {
		series.Err = err
		return series
	}
	series.Upstream = upstream

	ctx, span := trace.StartSpan(ctx, "market.GetSeries",
		attribute.String("symbol", upstream),
		attribute.String("timeframe", string(tf)),
		attribute.Int("days_back", daysBack),
	)
	defer span.End()

	end := p.now()
	var start time.Time
	interval := "1d"
	if tf.Intraday() {
		interval = "1h"
		start = end.AddDate(0, 0, -max(daysBack*7, 14))
	} else {
		start = end.AddDate(0, 0, -max(daysBack*3, 7))
	}

	began := time.Now()
	bars, err := p.collector.FetchHistory(ctx, upstream, start, end, interval)
	if err != nil {
		p.record(upstream, metrics.StatusError, began)
		p.logger.Warn("market fetch failed",
			zap.String("symbol", upstream),
			zap.String("timeframe", string(tf)),
			zap.Error(err),
		)
		span.RecordError(err)
		series.Err = core.WrapError(core.ErrUpstreamFetch, err)
		return series
	}

	if tf == core.Timeframe4h {
		bars = resample(bars, 4*time.Hour, string(core.Timeframe4h))
	}
	if tf.Intraday() {
		cutoff := end.AddDate(0, 0, -daysBack)
		bars = since(bars, cutoff)
	}

	if len(bars) == 0 {
		p.record(upstream, metrics.StatusEmpty, began)
		p.logger.Info("market fetch returned no bars", zap.String("symbol", upstream), zap.String("timeframe", string(tf)))
		series.Err = core.WrapError(core.ErrUpstreamFetch, fmt.Errorf("no data for %s", series.Symbol))
		return series
	}

	p.record(upstream, metrics.StatusOK, began)
	series.Bars = bars
	return series
}

// CurrentPrice returns the latest price for symbol
func (p *Provider) CurrentPrice(ctx context.Context, symbol string) (*core.Quote, error) {
	upstream, err := ResolveSymbol(symbol)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, "market.CurrentPrice", attribute.String("symbol", upstream))
	defer span.End()

	began := time.Now()
	q, err := p.collector.FetchQuote(ctx, upstream)
	if err != nil {
		p.record(upstream, metrics.StatusError, began)
		p.logger.Warn("price fetch failed", zap.String("symbol", upstream), zap.Error(err))
		return nil, core.WrapError(core.ErrUpstreamFetch, err)
	}
	if !q.IsValid() {
		p.record(upstream, metrics.StatusEmpty, began)
		return nil, core.WrapError(core.ErrUpstreamFetch, fmt.Errorf("no price for %s", upstream))
	}

	p.record(upstream, metrics.StatusOK, began)
	q.Symbol = DisplaySymbol(symbol)
	return q, nil
}

func (p *Provider) record(symbol, status string, began time.Time) {
	if p.metrics != nil {
		p.metrics.RecordMarketFetch(symbol, status, time.Since(began).Seconds())
	}
}

func since(bars []core.OHLCV, cutoff time.Time) []core.OHLCV {
	out := make([]core.OHLCV, 0, len(bars))
	for _, b := range bars {
		if !b.Time.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}
