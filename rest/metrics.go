package rest

import (
	"net/http"

	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/utility"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "benchboard"

// serviceMetrics holds the collectors for one service. Each service owns
// its registry so that tests can build many services in one process.
type serviceMetrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	reports  *prometheus.CounterVec
	notices  *prometheus.CounterVec
}

func newServiceMetrics() *serviceMetrics {
	m := &serviceMetrics{registry: prometheus.NewRegistry()}
	factory := promauto.With(m.registry)

	m.requests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method and status code.",
		},
		[]string{"code", "method"},
	)
	m.latency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	m.reports = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_total",
			Help:      "Number of reports built, by route.",
		},
		[]string{"route"},
	)
	m.notices = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notices_total",
			Help:      "Number of notices raised while selecting and reporting, by kind.",
		},
		[]string{"kind"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *serviceMetrics) handler() http.HandlerFunc {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP
}

func (m *serviceMetrics) observeReport(route string, report *model.APIReport) {
	if m == nil || report == nil {
		return
	}

	m.reports.WithLabelValues(route).Inc()
	m.observeNotices(report.Notices)
}

func (m *serviceMetrics) observeNotices(notices []model.APINotice) {
	if m == nil {
		return
	}

	for _, notice := range notices {
		m.notices.WithLabelValues(utility.FromStringPtr(notice.Kind)).Inc()
	}
}

// ServeHTTP makes the metrics usable as gimlet middleware.
func (m *serviceMetrics) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	promhttp.InstrumentHandlerDuration(m.latency,
		promhttp.InstrumentHandlerCounter(m.requests, next),
	).ServeHTTP(rw, r)
}
