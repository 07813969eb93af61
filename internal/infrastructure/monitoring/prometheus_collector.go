package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exposes the realtime and HTTP metrics of the
// process. It satisfies the hub's MetricsRecorder interface.
type PrometheusCollector struct {
	sessionsConnected prometheus.Gauge
	roomsActive       prometheus.Gauge
	presenceEntries   prometheus.Gauge
	sessionsTotal     prometheus.Counter

	eventsRoutedTotal *prometheus.CounterVec
	eventsDeniedTotal *prometheus.CounterVec

	accessCheckDuration prometheus.Histogram
	httpRequestDuration *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		sessionsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "boardsync_sessions_connected",
			Help: "Number of currently connected realtime sessions",
		}),

		roomsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "boardsync_rooms_active",
			Help: "Number of rooms with at least one member",
		}),

		presenceEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "boardsync_presence_entries",
			Help: "Number of live cursor presence entries across all rooms",
		}),

		sessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "boardsync_sessions_total",
			Help: "Total number of realtime sessions accepted",
		}),

		eventsRoutedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "boardsync_events_routed_total",
			Help: "Total number of realtime events routed, by event name",
		}, []string{"event"}),

		eventsDeniedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "boardsync_events_denied_total",
			Help: "Total number of realtime events dropped for insufficient access, by event name",
		}, []string{"event"}),

		accessCheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "boardsync_access_check_duration_seconds",
			Help:    "Latency of access oracle lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boardsync_http_request_duration_seconds",
			Help:    "Latency of HTTP API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (p *PrometheusCollector) SessionConnected() {
	p.sessionsConnected.Inc()
	p.sessionsTotal.Inc()
}

func (p *PrometheusCollector) SessionDisconnected() {
	p.sessionsConnected.Dec()
}

func (p *PrometheusCollector) SetRoomCount(count int) {
	p.roomsActive.Set(float64(count))
}

func (p *PrometheusCollector) SetPresenceCount(count int) {
	p.presenceEntries.Set(float64(count))
}

func (p *PrometheusCollector) EventRouted(event string) {
	p.eventsRoutedTotal.WithLabelValues(event).Inc()
}

func (p *PrometheusCollector) EventDenied(event string) {
	p.eventsDeniedTotal.WithLabelValues(event).Inc()
}

func (p *PrometheusCollector) ObserveAccessCheck(duration time.Duration) {
	p.accessCheckDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	p.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
