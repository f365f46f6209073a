package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	placements        *prometheus.CounterVec
	placementDuration prometheus.Histogram
	commentsPosted    *prometheus.CounterVec
	wsConnections     prometheus.Gauge
	broadcasts        *prometheus.CounterVec
	marketFetches     *prometheus.CounterVec
	archivedComments  prometheus.Counter
}

// Placement outcome labels.
const (
	OutcomePlaced     = "placed"
	OutcomeForced     = "forced"
	OutcomeSuppressed = "suppressed"
)

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
	r.placements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartnote_placements_total",
			Help: "Total annotation placements by outcome",
		},
		[]string{"outcome"},
	)
	r.placementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chartnote_placement_duration_seconds",
			Help:    "Duration of a full placement pass in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)
	r.commentsPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartnote_comments_posted_total",
			Help: "Total comments posted by transport",
		},
		[]string{"transport"},
	)
	r.wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chartnote_ws_connections",
			Help: "Number of open websocket connections",
		},
	)
	r.broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartnote_broadcasts_total",
			Help: "Total frames broadcast by message type",
		},
		[]string{"type"},
	)
	r.marketFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartnote_market_fetches_total",
			Help: "Total upstream market fetches by result",
		},
		[]string{"result"},
	)
	r.archivedComments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chartnote_archived_comments_total",
			Help: "Total comments moved to cold storage",
		},
	)

	reg.MustRegister(r.placements)
	reg.MustRegister(r.placementDuration)
	reg.MustRegister(r.commentsPosted)
	reg.MustRegister(r.wsConnections)
	reg.MustRegister(r.broadcasts)
	reg.MustRegister(r.marketFetches)
	reg.MustRegister(r.archivedComments)

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

// RecordPlacement records one annotation placement outcome.
func (r *Registry) RecordPlacement(outcome string) {
	r.placements.WithLabelValues(outcome).Inc()
}

// RecordPlacementPass records the duration of a full placement pass.
func (r *Registry) RecordPlacementPass(duration float64) {
	r.placementDuration.Observe(duration)
}

// RecordCommentPosted records a posted comment by transport ("ws" or "rest").
func (r *Registry) RecordCommentPosted(transport string) {
	r.commentsPosted.WithLabelValues(transport).Inc()
}

// SetWSConnections sets the open websocket connection count.
func (r *Registry) SetWSConnections(count int) {
	r.wsConnections.Set(float64(count))
}

// RecordBroadcast records one broadcast frame.
func (r *Registry) RecordBroadcast(msgType string) {
	r.broadcasts.WithLabelValues(msgType).Inc()
}

// RecordMarketFetch records an upstream fetch result ("ok", "error").
func (r *Registry) RecordMarketFetch(result string) {
	r.marketFetches.WithLabelValues(result).Inc()
}

// RecordArchived records comments moved to cold storage.
func (r *Registry) RecordArchived(count int) {
	r.archivedComments.Add(float64(count))
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
