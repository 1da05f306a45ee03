package web

import (
	"net/http"

	"github.com/newthinker/fxagents/internal/api/handler/api"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/market"
)

// Timeframes offered by the selector
var Timeframes = []core.Timeframe{core.Timeframe1h, core.Timeframe4h, core.Timeframe1d}

// MarketPageData holds data for the index and b3 templates
type MarketPageData struct {
	Title      string
	Symbols    []string
	Symbol     string
	Timeframe  core.Timeframe
	Timeframes []core.Timeframe
	DaysBack   int
	View       *api.MarketView
	Error      string
}

// defaults for the two market pages
const (
	indexSymbol   = "EURUSD"
	indexDaysBack = 2
	b3Symbol      = "WINFUT"
	b3DaysBack    = 7
)

// Index renders the forex page; POST reads symbol, timeframe and days_back from the form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := h.marketPage(r, "Forex", h.agent.AvailablePairs(), indexSymbol, indexDaysBack)
	h.render(w, http.StatusOK, "index.html", data)
}

// B3 renders the Brazilian futures page; POST reads asset, timeframe and days_back.
func (h *Handler) B3(w http.ResponseWriter, r *http.Request) {
	data := h.marketPage(r, "B3", market.ProxyAssets(), b3Symbol, b3DaysBack)
	h.render(w, http.StatusOK, "b3.html", data)
}

func (h *Handler) marketPage(r *http.Request, title string, symbols []string, symbol string, days int) MarketPageData {
	data := MarketPageData{
		Title:      title,
		Symbols:    symbols,
		Symbol:     symbol,
		Timeframe:  core.Timeframe1d,
		Timeframes: Timeframes,
		DaysBack:   days,
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			if s := r.PostFormValue("symbol"); s != "" {
				data.Symbol = s
			}
			if s := r.PostFormValue("asset"); s != "" {
				data.Symbol = s
			}
			data.Timeframe = core.ParseTimeframe(r.PostFormValue("timeframe"))
			data.DaysBack = api.ParseDaysBack(r.PostFormValue("days_back"), days)
		}
	}

	mv, err := api.LoadMarket(r.Context(), h.agent, data.Symbol, data.Timeframe, data.DaysBack)
	if err != nil {
		data.Error = errorMessage(err)
		return data
	}
	data.View = mv
	return data
}
