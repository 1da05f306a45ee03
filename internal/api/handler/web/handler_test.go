package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/newthinker/fxagents/internal/agent"
	"github.com/newthinker/fxagents/internal/api/upload"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/market"
	"github.com/newthinker/fxagents/internal/trades"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAgent struct {
	bars   []core.OHLCV
	err    error
	symbol string
	tf     core.Timeframe
	days   int
}

func (f *fakeAgent) AvailablePairs() []string { return market.AvailablePairs() }

func (f *fakeAgent) ForexData(ctx context.Context, symbol string, tf core.Timeframe, daysBack int) market.Series {
	f.symbol, f.tf, f.days = symbol, tf, daysBack
	if _, err := market.ResolveSymbol(symbol); err != nil {
		return market.Series{Symbol: symbol, Err: err}
	}
	return market.Series{Symbol: market.DisplaySymbol(symbol), Timeframe: tf, Bars: f.bars, Err: f.err}
}

func (f *fakeAgent) CurrentPrice(ctx context.Context, symbol string) (*core.Quote, error) {
	return nil, f.err
}

func (f *fakeAgent) AssetInfo(symbol string) market.AssetInfo { return market.LookupAsset(symbol) }

func (f *fakeAgent) AnalyzeMarket(ctx context.Context, symbol string, tf core.Timeframe) (*agent.Analysis, error) {
	return nil, f.err
}

func weekdayBars() []core.OHLCV {
	// 2024-01-08 is a Monday
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	return []core.OHLCV{
		{Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15, Time: start},
		{Open: 1.15, High: 1.25, Low: 1.1, Close: 1.2, Time: start.AddDate(0, 0, 1)},
	}
}

const sampleCSV = "data;min_pts_gain;max_pts_gain;min_pts_stop;max_pts_stop;min_resultado;max_resultado\n" +
	"15/01/2024;10;20;5;15;-50;100\n" +
	"20/02/2024;5;25;10;20;-100;-20\n"

func newTestMux(t *testing.T, fa *fakeAgent) (*http.ServeMux, *upload.Service) {
	t.Helper()
	svc := upload.NewService(trades.NewStore(), zap.NewNop())
	h, err := NewHandler("", fa, svc, zap.NewNop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Index)
	mux.HandleFunc("GET /b3", h.B3)
	mux.HandleFunc("POST /b3", h.B3)
	mux.HandleFunc("GET /upload", h.UploadPage)
	mux.HandleFunc("POST /upload", h.Upload)
	mux.HandleFunc("GET /charts/{id}", h.Charts)
	return mux, svc
}

func do(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex_Defaults(t *testing.T) {
	fa := &fakeAgent{bars: weekdayBars()}
	mux, _ := newTestMux(t, fa)

	w := do(mux, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EURUSD", fa.symbol)
	assert.Equal(t, core.Timeframe1d, fa.tf)
	assert.Equal(t, 2, fa.days)

	body := w.Body.String()
	assert.Contains(t, body, "2024-01-08")
	assert.Contains(t, body, "candlestick")
	assert.Contains(t, body, "Euro")
}

func TestIndex_Post(t *testing.T) {
	fa := &fakeAgent{bars: weekdayBars()}
	mux, _ := newTestMux(t, fa)

	w := do(mux, postForm("/", url.Values{"symbol": {"GBPUSD"}, "timeframe": {"4h"}, "days_back": {"5"}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GBPUSD", fa.symbol)
	assert.Equal(t, core.Timeframe4h, fa.tf)
	assert.Equal(t, 5, fa.days)
	assert.Contains(t, w.Body.String(), "Date/Time")
}

func TestIndex_EmptyMarker(t *testing.T) {
	mux, _ := newTestMux(t, &fakeAgent{err: core.WrapError(core.ErrUpstreamFetch, nil)})

	w := do(mux, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data available")
	assert.NotContains(t, w.Body.String(), "Plotly.newPlot")
}

func TestIndex_UnknownSymbol(t *testing.T) {
	mux, _ := newTestMux(t, &fakeAgent{bars: weekdayBars()})

	w := do(mux, postForm("/", url.Values{"symbol": {"XXXYYY"}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not available")
}

func TestB3_Defaults(t *testing.T) {
	fa := &fakeAgent{bars: weekdayBars()}
	mux, _ := newTestMux(t, fa)

	w := do(mux, httptest.NewRequest(http.MethodGet, "/b3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "WINFUT", fa.symbol)
	assert.Equal(t, 7, fa.days)
	assert.Contains(t, w.Body.String(), "WDOFUT")

	do(mux, postForm("/b3", url.Values{"asset": {"WDOFUT"}, "timeframe": {"1h"}, "days_back": {"3"}}))
	assert.Equal(t, "WDOFUT", fa.symbol)
	assert.Equal(t, 3, fa.days)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(upload.FormField, filename)
	require.NoError(t, err)
	fw.Write([]byte(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_Success(t *testing.T) {
	mux, svc := newTestMux(t, &fakeAgent{})

	w := do(mux, uploadRequest(t, "results.csv", sampleCSV))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2 records loaded")
	assert.Contains(t, body, "semicolon")
	assert.Contains(t, body, "15/01/2024")

	datasets := svc.Store().List()
	require.Len(t, datasets, 1)
	assert.Contains(t, body, "/charts/"+datasets[0].ID)
}

func TestUpload_Failure(t *testing.T) {
	mux, svc := newTestMux(t, &fakeAgent{})

	w := do(mux, uploadRequest(t, "results.csv", "date,max_result\n2024-01-01,1\n"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "min_points_gain")
	assert.Zero(t, svc.Store().Len())
}

func TestCharts(t *testing.T) {
	mux, svc := newTestMux(t, &fakeAgent{})
	_, res, err := svc.Ingest(context.Background(), "results.csv", []byte(sampleCSV))
	require.NoError(t, err)

	w := do(mux, httptest.NewRequest(http.MethodGet, "/charts/"+res.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2 records")
	assert.Contains(t, body, "2024-T1")

	w = do(mux, httptest.NewRequest(http.MethodGet, "/charts/"+res.ID+"?start_date=2025-01-01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No records in the selected period")

	w = do(mux, httptest.NewRequest(http.MethodGet, "/charts/"+res.ID+"?start_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharts_UnknownID(t *testing.T) {
	mux, _ := newTestMux(t, &fakeAgent{})

	w := do(mux, httptest.NewRequest(http.MethodGet, "/charts/data_missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "data not found")
}

func TestNewHandlerWithFS_MissingPage(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{template "content" .}}`)},
	}
	_, err := NewHandlerWithFS(fsys, &fakeAgent{}, nil, zap.NewNop())
	assert.Error(t, err)
}
