package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(prometheus.Labels{"app": "examwatch"}, registry)

var (
	SecurityEventsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_security_events_total",
			Help: "Security events accepted by the security log, by kind",
		},
		[]string{"kind"},
	)

	SecurityEventsDropped = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_security_events_dropped_total",
			Help: "Security events rejected before delivery, by reason",
		},
		[]string{"reason"},
	)

	ViolationsRecorded = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "examwatch_violations_recorded_total",
			Help: "Violations acknowledged by the session store",
		},
	)

	WarningsIssued = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_warnings_issued_total",
			Help: "Warnings shown to students, by ladder level",
		},
		[]string{"level"},
	)

	SessionsTerminated = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_sessions_terminated_total",
			Help: "Assessment sessions force-terminated, by reason",
		},
		[]string{"reason"},
	)

	CollaboratorFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_collaborator_failures_total",
			Help: "Failed calls to storage, log sinks and identity, by operation",
		},
		[]string{"operation"},
	)

	ActiveMonitors = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "examwatch_active_monitors",
			Help: "Number of browser tabs currently monitored",
		},
	)

	HTTPRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "examwatch_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "examwatch_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var (
	Enabled  bool
	initOnce sync.Once
)

func Initialize(enabled bool) {
	Enabled = enabled
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Gatherer() prometheus.Gatherer {
	return registry
}
