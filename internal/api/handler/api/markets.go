package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/newthinker/fxagents/internal/agent"
	"github.com/newthinker/fxagents/internal/api/response"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/market"
	"github.com/newthinker/fxagents/internal/view"
)

// DefaultDaysBack is used when days_back is absent or invalid
const DefaultDaysBack = 2

// MaxDaysBack caps days_back
const MaxDaysBack = 365

// MarketAgent defines what the market handlers need from agent.Agent.
type MarketAgent interface {
	AvailablePairs() []string
	ForexData(ctx context.Context, symbol string, tf core.Timeframe, daysBack int) market.Series
	CurrentPrice(ctx context.Context, symbol string) (*core.Quote, error)
	AssetInfo(symbol string) market.AssetInfo
	AnalyzeMarket(ctx context.Context, symbol string, tf core.Timeframe) (*agent.Analysis, error)
}

// MarketView is a projected series. When Empty is true Market is nil and Message says why.
type MarketView struct {
	Symbol    string           `json:"symbol"`
	Timeframe core.Timeframe   `json:"timeframe"`
	DaysBack  int              `json:"days_back"`
	Empty     bool             `json:"empty"`
	Message   string           `json:"message,omitempty"`
	Market    *view.Market     `json:"market,omitempty"`
	Asset     market.AssetInfo `json:"asset"`
}

// LoadMarket fetches and projects a series. Unknown symbols return NOT_FOUND;
// upstream failures and weekend-only series return an empty view.
func LoadMarket(ctx context.Context, a MarketAgent, symbol string, tf core.Timeframe, daysBack int) (*MarketView, error) {
	series := a.ForexData(ctx, symbol, tf, daysBack)
	if errors.Is(series.Err, core.ErrNotFound) {
		return nil, series.Err
	}

	mv := &MarketView{
		Symbol:    series.Symbol,
		Timeframe: tf,
		DaysBack:  daysBack,
		Asset:     a.AssetInfo(series.Symbol),
	}
	if series.Err != nil {
		mv.Empty = true
		mv.Message = emptyMessage(series.Err)
		return mv, nil
	}

	m, err := view.Build(series.Symbol, tf, series.Bars)
	if err != nil {
		mv.Empty = true
		mv.Message = emptyMessage(err)
		return mv, nil
	}
	mv.Market = m
	return mv, nil
}

func emptyMessage(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.Message
	}
	return core.ErrEmptyInput.Message
}

// ParseDaysBack reads a positive day count, falling back to def
func ParseDaysBack(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return min(n, MaxDaysBack)
}

// MarketsHandler serves market data and analysis.
type MarketsHandler struct {
	agent MarketAgent
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(a MarketAgent) *MarketsHandler {
	return &MarketsHandler{agent: a}
}

// Pairs handles GET /api/v1/pairs
func (h *MarketsHandler) Pairs(w http.ResponseWriter, r *http.Request) {
	pairs := h.agent.AvailablePairs()
	response.JSON(w, http.StatusOK, map[string]any{
		"pairs":   pairs,
		"proxies": market.ProxyAssets(),
		"count":   len(pairs),
	})
}

// Market handles GET /api/v1/markets/{symbol}
func (h *MarketsHandler) Market(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tf := core.ParseTimeframe(q.Get("timeframe"))
	days := ParseDaysBack(q.Get("days_back"), DefaultDaysBack)

	mv, err := LoadMarket(r.Context(), h.agent, r.PathValue("symbol"), tf, days)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, mv)
}

// Price handles GET /api/v1/markets/{symbol}/price
func (h *MarketsHandler) Price(w http.ResponseWriter, r *http.Request) {
	quote, err := h.agent.CurrentPrice(r.Context(), r.PathValue("symbol"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"symbol": quote.Symbol,
		"price":  quote.Price,
		"time":   quote.Time.Format(time.RFC3339),
		"source": quote.Source,
	})
}

// Asset handles GET /api/v1/assets/{symbol}
func (h *MarketsHandler) Asset(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.agent.AssetInfo(r.PathValue("symbol")))
}

// Analysis handles POST /api/v1/markets/{symbol}/analysis
func (h *MarketsHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	tf := core.ParseTimeframe(r.URL.Query().Get("timeframe"))

	analysis, err := h.agent.AnalyzeMarket(r.Context(), r.PathValue("symbol"), tf)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, analysis)
}
