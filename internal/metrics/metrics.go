package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusEmpty = "empty"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	uploadsTotal        *prometheus.CounterVec
	uploadRows          prometheus.Histogram
	datasetsStored      prometheus.Gauge
	marketFetches       *prometheus.CounterVec
	marketFetchDuration prometheus.Histogram
	aggregationsTotal   prometheus.Counter
	llmRequests         *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxagents_uploads_total",
			Help: "Total number of trade file uploads by outcome",
		},
		[]string{"status"},
	)
	r.uploadRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxagents_upload_rows",
			Help:    "Rows per accepted upload",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
	r.datasetsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxagents_datasets_stored",
			Help: "Number of datasets held in memory",
		},
	)
	r.marketFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxagents_market_fetches_total",
			Help: "Total number of market data fetches",
		},
		[]string{"symbol", "status"},
	)
	r.marketFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxagents_market_fetch_duration_seconds",
			Help:    "Market data fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.aggregationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxagents_aggregations_total",
			Help: "Total number of dataset aggregations",
		},
	)
	r.llmRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxagents_llm_requests_total",
			Help: "Total number of LLM analysis requests",
		},
		[]string{"provider", "status"},
	)

	reg.MustRegister(r.uploadsTotal)
	reg.MustRegister(r.uploadRows)
	reg.MustRegister(r.datasetsStored)
	reg.MustRegister(r.marketFetches)
	reg.MustRegister(r.marketFetchDuration)
	reg.MustRegister(r.aggregationsTotal)
	reg.MustRegister(r.llmRequests)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordUpload records an upload outcome. rows is observed for accepted uploads only.
func (r *Registry) RecordUpload(status string, rows int) {
	r.uploadsTotal.WithLabelValues(status).Inc()
	if status == StatusOK {
		r.uploadRows.Observe(float64(rows))
	}
}

// SetDatasetsStored sets the in-memory dataset count.
func (r *Registry) SetDatasetsStored(count int) {
	r.datasetsStored.Set(float64(count))
}

// RecordMarketFetch records a market data fetch.
func (r *Registry) RecordMarketFetch(symbol, status string, duration float64) {
	r.marketFetches.WithLabelValues(symbol, status).Inc()
	r.marketFetchDuration.Observe(duration)
}

// RecordAggregation records a dataset aggregation.
func (r *Registry) RecordAggregation() {
	r.aggregationsTotal.Inc()
}

// RecordLLMRequest records an LLM analysis request.
func (r *Registry) RecordLLMRequest(provider, status string) {
	r.llmRequests.WithLabelValues(provider, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
