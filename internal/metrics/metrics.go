// Package metrics holds the Prometheus collectors for HTTP traffic and for
// the auth and enrollment flows.  A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type Metrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	rateLimitHits  *prometheus.CounterVec
	authEvents     *prometheus.CounterVec
	enrollments    *prometheus.CounterVec
	paymentsCents  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursehub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "http",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Registrations, logins and refreshes by outcome",
		}, []string{"event", "outcome"}),
		enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "enrollment",
			Name:      "transitions_total",
			Help:      "Enrollment status changes by target status",
		}, []string{"status"}),
		paymentsCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "payment",
			Name:      "amount_cents_total",
			Help:      "Sum of recorded payment amounts in cents",
		}),
	}
	for _, c := range []prometheus.Collector{m.requestTotal, m.requestLatency, m.rateLimitHits, m.authEvents, m.enrollments, m.paymentsCents} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(d.Seconds())
}

func (m *Metrics) RateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(route).Inc()
}

// AuthEvent counts event ("register", "login", "refresh") with outcome
// ("ok" or "rejected").
func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) EnrollmentStatus(status string) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentRecorded(amountCents int64) {
	if m == nil || amountCents < 0 {
		return
	}
	m.paymentsCents.Add(float64(amountCents))
}
