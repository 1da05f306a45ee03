// Package market resolves user-facing symbols and fetches OHLC series through a collector.
package market

import (
	"fmt"
	"strings"

	"github.com/newthinker/fxagents/internal/core"
)

const forexSuffix = "=X"

var pairs = []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF", "NZDUSD"}

// B3 futures have no free feed, so they are charted through related instruments:
// the Bovespa index for the mini index and USD/BRL for the mini dollar.
// TODO: replace with real WIN/WDO contract data once a B3 feed is chosen; the proxies track
// the underlying, not the contract.
var proxies = []struct {
	Symbol   string
	Upstream string
}{
	{"WINFUT", "^BVSP"},
	{"WDOFUT", "USDBRL=X"},
}

// AvailablePairs returns the supported currency pairs without the upstream suffix
func AvailablePairs() []string {
	return append([]string(nil), pairs...)
}

// ProxyAssets returns the exchange-traded contracts served through proxy instruments
func ProxyAssets() []string {
	out := make([]string, len(proxies))
	for i, p := range proxies {
		out[i] = p.Symbol
	}
	return out
}

// IsProxy reports whether symbol is one of ProxyAssets
func IsProxy(symbol string) bool {
	_, ok := proxyUpstream(normalize(symbol))
	return ok
}

// ResolveSymbol maps a user symbol (EURUSD, eurusd, EURUSD=X, WINFUT) to its upstream ticker.
// Symbols outside the pair list and the proxy list are NOT_FOUND.
func ResolveSymbol(symbol string) (string, error) {
	s := normalize(symbol)
	if up, ok := proxyUpstream(s); ok {
		return up, nil
	}

	base := strings.TrimSuffix(s, forexSuffix)
	for _, p := range pairs {
		if p == base {
			return base + forexSuffix, nil
		}
	}
	return "", core.WrapError(core.ErrNotFound, fmt.Errorf("symbol %q is not available", symbol))
}

// DisplaySymbol strips the upstream suffix, so EURUSD=X and EURUSD name the same pair
func DisplaySymbol(symbol string) string {
	return strings.TrimSuffix(normalize(symbol), forexSuffix)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func proxyUpstream(symbol string) (string, bool) {
	for _, p := range proxies {
		if p.Symbol == symbol {
			return p.Upstream, true
		}
	}
	return "", false
}
