// Package agent answers market questions: raw series, asset facts and LLM-written analysis.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/indicator"
	"github.com/newthinker/fxagents/internal/llm"
	"github.com/newthinker/fxagents/internal/market"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/newthinker/fxagents/internal/trace"
	"github.com/newthinker/fxagents/internal/view"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const systemPrompt = `You are an agent specialised in forex market analysis.
You give accurate information about currency pairs, including current and historical prices,
and basic analysis of recent price action.
Use only the market data supplied in the request and answer clearly and objectively in markdown.`

const (
	analysisBars     = 20
	analysisMaxToken = 1024
)

// Analysis is an LLM-written market commentary
type Analysis struct {
	Symbol      string    `json:"symbol"`
	Timeframe   string    `json:"timeframe"`
	Provider    string    `json:"provider"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Agent combines the market provider with an optional language model
type Agent struct {
	market  *market.Provider
	llm     llm.Provider
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New creates an agent. provider may be nil, in which case AnalyzeMarket reports CONFIG_MISSING.
func New(m *market.Provider, provider llm.Provider, logger *zap.Logger, reg *metrics.Registry) *Agent {
	return &Agent{market: m, llm: provider, logger: logger, metrics: reg}
}

// AvailablePairs lists the tradable currency pairs
func (a *Agent) AvailablePairs() []string {
	return market.AvailablePairs()
}

// ForexData fetches the bar series for symbol; see market.Provider.GetSeries
func (a *Agent) ForexData(ctx context.Context, symbol string, tf core.Timeframe, daysBack int) market.Series {
	return a.market.GetSeries(ctx, symbol, tf, daysBack)
}

// CurrentPrice returns the latest price for symbol
func (a *Agent) CurrentPrice(ctx context.Context, symbol string) (*core.Quote, error) {
	return a.market.CurrentPrice(ctx, symbol)
}

// AssetInfo returns catalogue information for symbol
func (a *Agent) AssetInfo(symbol string) market.AssetInfo {
	return market.LookupAsset(symbol)
}

// LLMEnabled reports whether a language model is configured
func (a *Agent) LLMEnabled() bool {
	return a.llm != nil
}

// AnalyzeMarket asks the language model for a short analysis of recent price action.
func (a *Agent) AnalyzeMarket(ctx context.Context, symbol string, tf core.Timeframe) (*Analysis, error) {
	if a.llm == nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("no llm provider configured"))
	}

	ctx, span := trace.StartSpan(ctx, "agent.AnalyzeMarket",
		attribute.String("symbol", symbol),
		attribute.String("provider", a.llm.Name()),
	)
	defer span.End()

	daysBack := 5
	if tf.Intraday() {
		daysBack = 2
	}
	series := a.market.GetSeries(ctx, symbol, tf, daysBack)
	if series.Err != nil {
		return nil, series.Err
	}
	summary, err := view.Summarize(series.Symbol, tf, series.Bars)
	if err != nil {
		return nil, core.WrapError(core.ErrUpstreamFetch, fmt.Errorf("no weekday bars for %s", series.Symbol))
	}

	resp, err := a.llm.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{llm.UserMessage(buildPrompt(summary, series))},
		MaxTokens:    analysisMaxToken,
		Temperature:  0.3,
	})
	if err != nil {
		a.record(metrics.StatusError)
		span.RecordError(err)
		a.logger.Warn("llm analysis failed",
			zap.String("provider", a.llm.Name()),
			zap.String("symbol", series.Symbol),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrLLMFailed, err)
	}
	a.record(metrics.StatusOK)

	a.logger.Debug("llm analysis generated",
		zap.String("provider", a.llm.Name()),
		zap.String("symbol", series.Symbol),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	return &Analysis{
		Symbol:      series.Symbol,
		Timeframe:   string(tf),
		Provider:    a.llm.Name(),
		Content:     strings.TrimSpace(resp.Content),
		GeneratedAt: time.Now(),
	}, nil
}

func (a *Agent) record(status string) {
	if a.metrics != nil {
		a.metrics.RecordLLMRequest(a.llm.Name(), status)
	}
}

// buildPrompt summarises the series and lists the most recent weekday bars.
func buildPrompt(s *view.Summary, series market.Series) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give a quick analysis of %s on the %s timeframe.\n", s.Symbol, s.Timeframe)
	b.WriteString("Use the data below to describe the recent price movement.\n\n")
	fmt.Fprintf(&b, "Period: %s to %s\n", s.PeriodStart, s.PeriodEnd)
	fmt.Fprintf(&b, "First open: %.5f  Last close: %.5f\n", s.OpenFirst, s.CloseLast)
	fmt.Fprintf(&b, "High: %.5f  Low: %.5f\n", s.HighMax, s.LowMin)
	fmt.Fprintf(&b, "Change: %.5f (%.2f%%)\n\n", s.Change, s.ChangePct)
	writeIndicators(&b, series.Bars)

	if table, err := view.FormatTable(series.Bars, series.Timeframe); err == nil {
		rows := table.Rows
		if len(rows) > analysisBars {
			rows = rows[len(rows)-analysisBars:]
		}
		b.WriteString(strings.Join(table.Columns, " | "))
		b.WriteString("\n")
		for _, r := range rows {
			b.WriteString(strings.Join(r.Cells(), " | "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// writeIndicators appends the latest moving averages and RSI over weekday closes, when there is enough data.
func writeIndicators(b *strings.Builder, bars []core.OHLCV) {
	weekdays := view.Weekdays(bars)
	closes := make([]float64, len(weekdays))
	for i, bar := range weekdays {
		closes[i] = bar.Close
	}

	snap := indicator.Latest(closes)
	if snap.Empty() {
		return
	}
	b.WriteString("Indicators:\n")
	line := func(name string, v *float64, format string) {
		if v != nil {
			fmt.Fprintf(b, "- %s: "+format+"\n", name, *v)
		}
	}
	line(fmt.Sprintf("SMA(%d)", indicator.FastPeriod), snap.SMAFast, "%.5f")
	line(fmt.Sprintf("SMA(%d)", indicator.SlowPeriod), snap.SMASlow, "%.5f")
	line(fmt.Sprintf("EMA(%d)", indicator.EMAPeriod), snap.EMA, "%.5f")
	line(fmt.Sprintf("RSI(%d)", indicator.RSIPeriod), snap.RSI, "%.1f")
	b.WriteString("\n")
}
