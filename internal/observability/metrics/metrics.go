package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records domain-level counters for earnings and payouts.
type Metrics struct {
	reconciliations *prometheus.CounterVec
	syncGaps        prometheus.Counter
	degradedSources *prometheus.CounterVec
	payoutLegs      *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		reconciliations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefit_reconciliations_total",
			Help: "Earnings reconciliations by side.",
		}, []string{"side"}),
		syncGaps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsefit_sync_gaps_total",
			Help: "Processor events merged without a matching internal record.",
		}),
		degradedSources: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefit_degraded_sources_total",
			Help: "Source fetches that degraded to an empty result.",
		}, []string{"source"}),
		payoutLegs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefit_payout_legs_total",
			Help: "Executed payout legs by side and outcome.",
		}, []string{"side", "outcome"}),
	}
}

func (m *Metrics) RecordReconciliation(side string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(side).Inc()
}

func (m *Metrics) RecordSyncGap() {
	if m == nil {
		return
	}
	m.syncGaps.Inc()
}

func (m *Metrics) RecordDegradedSource(source string) {
	if m == nil {
		return
	}
	m.degradedSources.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordPayoutLeg(side string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.payoutLegs.WithLabelValues(side, outcome).Inc()
}

// HTTPMetrics instruments the gin surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefit_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulsefit_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
