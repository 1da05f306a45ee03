package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCollector struct {
	bars  []core.OHLCV
	quote *core.Quote
	err   error

	symbol   string
	interval string
	start    time.Time
	end      time.Time
}

func (f *fakeCollector) Name() string { return "fake" }

func (f *fakeCollector) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	f.symbol = symbol
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakeCollector) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	f.symbol, f.start, f.end, f.interval = symbol, start, end, interval
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestProvider(c *fakeCollector) *Provider {
	p := NewProvider(c, zap.NewNop(), WithMetrics(metrics.NewRegistry()))
	p.now = func() time.Time { return fixedNow }
	return p
}

func hourly(start time.Time, n int) []core.OHLCV {
	bars := make([]core.OHLCV, n)
	for i := range bars {
		v := float64(i + 1)
		bars[i] = core.OHLCV{Open: v, High: v + 0.5, Low: v - 0.5, Close: v + 0.25, Volume: 10, Time: start.Add(time.Duration(i) * time.Hour)}
	}
	return bars
}

func TestResolveSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"EURUSD", "EURUSD=X", true},
		{"eurusd", "EURUSD=X", true},
		{"EURUSD=X", "EURUSD=X", true},
		{" NZDUSD ", "NZDUSD=X", true},
		{"WINFUT", "^BVSP", true},
		{"WDOFUT", "USDBRL=X", true},
		{"EURBRL", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, err := ResolveSymbol(tc.input)
		if tc.ok {
			assert.NoError(t, err, tc.input)
			assert.Equal(t, tc.want, got, tc.input)
		} else {
			assert.True(t, errors.Is(err, core.ErrNotFound), tc.input)
		}
	}
}

func TestCatalogue(t *testing.T) {
	assert.Len(t, AvailablePairs(), 7)
	assert.Equal(t, []string{"WINFUT", "WDOFUT"}, ProxyAssets())
	assert.True(t, IsProxy("winfut"))
	assert.False(t, IsProxy("EURUSD"))

	pairs := AvailablePairs()
	pairs[0] = "XXX"
	assert.Equal(t, "EURUSD", AvailablePairs()[0], "callers must not mutate the list")
}

func TestGetSeries_DailyLookback(t *testing.T) {
	c := &fakeCollector{bars: []core.OHLCV{{Open: 1, High: 1, Low: 1, Close: 1, Time: fixedNow.AddDate(0, 0, -1)}}}
	p := newTestProvider(c)

	s := p.GetSeries(context.Background(), "EURUSD", core.Timeframe1d, 2)

	require.NoError(t, s.Err)
	assert.Equal(t, "EURUSD", s.Symbol)
	assert.Equal(t, "EURUSD=X", s.Upstream)
	assert.Equal(t, "1d", c.interval)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), c.start, "minimum daily lookback is 7 days")
	assert.Len(t, s.Bars, 1)

	p.GetSeries(context.Background(), "EURUSD", core.Timeframe1d, 5)
	assert.Equal(t, fixedNow.AddDate(0, 0, -15), c.start)
}

func TestGetSeries_IntradayTrimsToDaysBack(t *testing.T) {
	c := &fakeCollector{bars: hourly(fixedNow.Add(-72*time.Hour), 72)}
	p := newTestProvider(c)

	s := p.GetSeries(context.Background(), "GBPUSD", core.Timeframe1h, 1)

	require.NoError(t, s.Err)
	assert.Equal(t, "1h", c.interval)
	assert.Equal(t, fixedNow.AddDate(0, 0, -14), c.start, "minimum intraday lookback is 14 days")
	assert.Len(t, s.Bars, 24)
	assert.False(t, s.Bars[0].Time.Before(fixedNow.AddDate(0, 0, -1)))
}

func TestGetSeries_FourHourResample(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	c := &fakeCollector{bars: hourly(start, 8)}
	p := newTestProvider(c)
	p.now = func() time.Time { return start.Add(8 * time.Hour) }

	s := p.GetSeries(context.Background(), "USDJPY", core.Timeframe4h, 1)

	require.NoError(t, s.Err)
	assert.Equal(t, "1h", c.interval)
	require.Len(t, s.Bars, 2)

	first := s.Bars[0]
	assert.Equal(t, start, first.Time)
	assert.Equal(t, 1.0, first.Open)
	assert.Equal(t, 4.5, first.High)
	assert.Equal(t, 0.5, first.Low)
	assert.Equal(t, 4.25, first.Close)
	assert.Equal(t, int64(40), first.Volume)
	assert.Equal(t, "4h", first.Interval)
	assert.Equal(t, start.Add(4*time.Hour), s.Bars[1].Time)
}

func TestGetSeries_ProxyAsset(t *testing.T) {
	c := &fakeCollector{bars: []core.OHLCV{{Close: 120000, Time: fixedNow}}}
	p := newTestProvider(c)

	s := p.GetSeries(context.Background(), "WINFUT", core.Timeframe1d, 7)

	require.NoError(t, s.Err)
	assert.Equal(t, "^BVSP", c.symbol)
	assert.Equal(t, "WINFUT", s.Symbol)
}

func TestGetSeries_FailuresYieldEmptySeries(t *testing.T) {
	t.Run("upstream error", func(t *testing.T) {
		p := newTestProvider(&fakeCollector{err: errors.New("connection refused")})
		s := p.GetSeries(context.Background(), "EURUSD", core.Timeframe1d, 2)
		assert.True(t, s.Empty())
		assert.True(t, errors.Is(s.Err, core.ErrUpstreamFetch))
	})

	t.Run("no bars", func(t *testing.T) {
		p := newTestProvider(&fakeCollector{})
		s := p.GetSeries(context.Background(), "EURUSD", core.Timeframe1d, 2)
		assert.True(t, s.Empty())
		assert.True(t, errors.Is(s.Err, core.ErrUpstreamFetch))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		c := &fakeCollector{}
		p := newTestProvider(c)
		s := p.GetSeries(context.Background(), "DOGEUSD", core.Timeframe1d, 2)
		assert.True(t, s.Empty())
		assert.True(t, errors.Is(s.Err, core.ErrNotFound))
		assert.Empty(t, c.symbol, "collector must not be called")
	})
}

func TestGetSeries_ClampsDaysBack(t *testing.T) {
	c := &fakeCollector{bars: []core.OHLCV{{Close: 1, Time: fixedNow}}}
	p := newTestProvider(c)

	p.GetSeries(context.Background(), "EURUSD", core.Timeframe1d, 0)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), c.start)
}

func TestCurrentPrice(t *testing.T) {
	c := &fakeCollector{quote: &core.Quote{Symbol: "USDBRL=X", Price: 5.01, Source: "fake"}}
	p := newTestProvider(c)

	q, err := p.CurrentPrice(context.Background(), "WDOFUT")
	require.NoError(t, err)
	assert.Equal(t, "USDBRL=X", c.symbol)
	assert.Equal(t, "WDOFUT", q.Symbol)
	assert.Equal(t, 5.01, q.Price)

	c.quote = &core.Quote{Symbol: "USDBRL=X"}
	_, err = p.CurrentPrice(context.Background(), "WDOFUT")
	assert.True(t, errors.Is(err, core.ErrUpstreamFetch))

	c.err = errors.New("timeout")
	_, err = p.CurrentPrice(context.Background(), "WDOFUT")
	assert.True(t, errors.Is(err, core.ErrUpstreamFetch))
}

func TestLookupAsset(t *testing.T) {
	info := LookupAsset("EURUSD=X")
	assert.Equal(t, "EURUSD", info.Symbol)
	assert.Equal(t, "EUR", info.BaseCurrency)
	assert.Equal(t, "Major", info.Category)

	generic := LookupAsset("EURBRL")
	assert.Equal(t, "EUR", generic.BaseCurrency)
	assert.Equal(t, "BRL", generic.QuoteCurrency)
	assert.Equal(t, "Other", generic.Category)

	short := LookupAsset("XAU")
	assert.Equal(t, "N/A", short.BaseCurrency)
	assert.Equal(t, "N/A", short.QuoteCurrency)
}
