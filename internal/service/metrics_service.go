package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the application
// counters. A nil *MetricsService is a valid no-op recorder, so
// services can be wired without metrics in tests.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	availabilityQuery prometheus.Histogram
	reservationDenied prometheus.Counter
	statusTransitions *prometheus.CounterVec
}

// NewMetricsService builds the registry and registers all collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garage_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "garage_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		availabilityQuery: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "garage_availability_query_duration_seconds",
			Help:    "Time spent computing day availability.",
			Buckets: prometheus.DefBuckets,
		}),
		reservationDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garage_reservation_conflicts_total",
			Help: "Reservations rejected because the slot was taken.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garage_status_transitions_total",
			Help: "Appointment status transitions by target status.",
		}, []string{"to"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.availabilityQuery,
		m.reservationDenied,
		m.statusTransitions,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one finished HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveAvailabilityQuery records the cost of one day computation.
func (m *MetricsService) ObserveAvailabilityQuery(duration time.Duration) {
	if m == nil {
		return
	}
	m.availabilityQuery.Observe(duration.Seconds())
}

// IncReservationConflict counts a reservation lost to a concurrent booking.
func (m *MetricsService) IncReservationConflict() {
	if m == nil {
		return
	}
	m.reservationDenied.Inc()
}

// IncStatusTransition counts one appointment status change.
func (m *MetricsService) IncStatusTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}
