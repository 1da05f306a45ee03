package market

import "fmt"

// AssetInfo is static reference information about a tradable symbol
type AssetInfo struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	BaseCurrency  string  `json:"base_currency"`
	QuoteCurrency string  `json:"quote_currency"`
	PipValue      float64 `json:"pip_value"`
	TypicalSpread string  `json:"spread_typical"`
	SessionsGMT   string  `json:"session_hours"`
	SessionsBRT   string  `json:"session_hours_brt"`
	Volatility    string  `json:"volatility"`
	Category      string  `json:"category"`
}

const (
	londonNY    = "London: 08:00-17:00 GMT, New York: 13:00-22:00 GMT"
	londonNYBRT = "London: 05:00-14:00 BRT, New York: 10:00-19:00 BRT"
	sydneyNY    = "Sydney: 22:00-07:00 GMT, New York: 13:00-22:00 GMT"
	sydneyNYBRT = "Sydney: 19:00-04:00 BRT, New York: 10:00-19:00 BRT"
)

var assets = map[string]AssetInfo{
	"EURUSD": {
		Name:          "Euro / US Dollar",
		Description:   "The most traded currency pair in the world.",
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		PipValue:      0.0001,
		TypicalSpread: "1-2 pips",
		SessionsGMT:   londonNY,
		SessionsBRT:   londonNYBRT,
		Volatility:    "Medium",
		Category:      "Major",
	},
	"GBPUSD": {
		Name:          "British Pound / US Dollar",
		Description:   "Known as \"Cable\".",
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		PipValue:      0.0001,
		TypicalSpread: "2-3 pips",
		SessionsGMT:   londonNY,
		SessionsBRT:   londonNYBRT,
		Volatility:    "High",
		Category:      "Major",
	},
	"USDJPY": {
		Name:          "US Dollar / Japanese Yen",
		Description:   "The dollar against the yen, most active in the Tokyo and New York sessions.",
		BaseCurrency:  "USD",
		QuoteCurrency: "JPY",
		PipValue:      0.01,
		TypicalSpread: "1-2 pips",
		SessionsGMT:   "Tokyo: 00:00-09:00 GMT, New York: 13:00-22:00 GMT",
		SessionsBRT:   "Tokyo: 21:00-06:00 BRT, New York: 10:00-19:00 BRT",
		Volatility:    "Medium",
		Category:      "Major",
	},
	"USDCHF": {
		Name:          "US Dollar / Swiss Franc",
		Description:   "Known as \"Swissie\".",
		BaseCurrency:  "USD",
		QuoteCurrency: "CHF",
		PipValue:      0.0001,
		TypicalSpread: "2-3 pips",
		SessionsGMT:   londonNY,
		SessionsBRT:   londonNYBRT,
		Volatility:    "Low-Medium",
		Category:      "Major",
	},
	"AUDUSD": {
		Name:          "Australian Dollar / US Dollar",
		Description:   "Known as \"Aussie\".",
		BaseCurrency:  "AUD",
		QuoteCurrency: "USD",
		PipValue:      0.0001,
		TypicalSpread: "2-4 pips",
		SessionsGMT:   sydneyNY,
		SessionsBRT:   sydneyNYBRT,
		Volatility:    "Medium-High",
		Category:      "Major",
	},
	"USDCAD": {
		Name:          "US Dollar / Canadian Dollar",
		Description:   "Known as \"Loonie\".",
		BaseCurrency:  "USD",
		QuoteCurrency: "CAD",
		PipValue:      0.0001,
		TypicalSpread: "2-3 pips",
		SessionsGMT:   "New York: 13:00-22:00 GMT",
		SessionsBRT:   "New York: 10:00-19:00 BRT",
		Volatility:    "Medium",
		Category:      "Major",
	},
	"NZDUSD": {
		Name:          "New Zealand Dollar / US Dollar",
		Description:   "Known as \"Kiwi\".",
		BaseCurrency:  "NZD",
		QuoteCurrency: "USD",
		PipValue:      0.0001,
		TypicalSpread: "3-5 pips",
		SessionsGMT:   sydneyNY,
		SessionsBRT:   sydneyNYBRT,
		Volatility:    "High",
		Category:      "Major",
	},
	"WINFUT": {
		Name:          "Mini Ibovespa Future",
		Description:   "B3 mini index future, charted through the Bovespa index (^BVSP).",
		BaseCurrency:  "BRL",
		QuoteCurrency: "N/A",
		PipValue:      5,
		TypicalSpread: "Variable",
		SessionsGMT:   "B3: 12:00-21:00 GMT",
		SessionsBRT:   "B3: 09:00-18:00 BRT",
		Volatility:    "High",
		Category:      "B3 proxy",
	},
	"WDOFUT": {
		Name:          "Mini US Dollar Future",
		Description:   "B3 mini dollar future, charted through USD/BRL (USDBRL=X).",
		BaseCurrency:  "USD",
		QuoteCurrency: "BRL",
		PipValue:      0.5,
		TypicalSpread: "Variable",
		SessionsGMT:   "B3: 12:00-21:00 GMT",
		SessionsBRT:   "B3: 09:00-18:00 BRT",
		Volatility:    "Medium",
		Category:      "B3 proxy",
	},
}

// LookupAsset returns catalogue info for symbol, or generic info derived from its name
func LookupAsset(symbol string) AssetInfo {
	s := DisplaySymbol(symbol)
	if info, ok := assets[s]; ok {
		info.Symbol = s
		return info
	}

	base, quote := "N/A", "N/A"
	if len(s) >= 6 {
		base, quote = s[:3], s[3:]
	}
	return AssetInfo{
		Symbol:        s,
		Name:          s,
		Description:   fmt.Sprintf("Currency pair %s", s),
		BaseCurrency:  base,
		QuoteCurrency: quote,
		PipValue:      0.0001,
		TypicalSpread: "Variable",
		SessionsGMT:   "Market hours",
		SessionsBRT:   "Market hours",
		Volatility:    "Variable",
		Category:      "Other",
	}
}
