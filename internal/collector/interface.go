package collector

import (
	"context"
	"time"

	"github.com/newthinker/fxagents/internal/core"
)

// Collector fetches prices from one upstream market-data source
type Collector interface {
	Name() string

	// FetchQuote returns the latest price for an upstream symbol
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
	// FetchHistory returns bars in [start, end] at the given interval ("1h", "1d"), oldest first
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error)
}
