// Package metrics exposes the site's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zachkp/folio/internal/contact"
)

// Outcome labels for folio_contact_submissions_total. OutcomeNotifyFailed is
// an accepted submission that reached the inbox but not the mailer.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeFailed       = "delivery_failed"
	OutcomeNotifyFailed = "notify_failed"
)

// Metrics owns a registry so several instances (tests) never collide.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	visits      prometheus.Counter
}

// New registers the runtime collectors and the site counters.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_contact_submissions_total",
			Help: "Contact form submit attempts by outcome.",
		}, []string{"outcome"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_contact_field_errors_total",
			Help: "Validation errors reported per contact form field.",
		}, []string{"field"}),
		visits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_visits_tracked_total",
			Help: "Page views recorded by visitor tracking.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions,
		m.fieldErrors,
		m.visits,
	)
	return m
}

// Submission counts one submit attempt. Rejected attempts also count each
// failing field.
func (m *Metrics) Submission(outcome string, errs contact.ErrorState) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	for field := range errs {
		m.fieldErrors.WithLabelValues(string(field)).Inc()
	}
}

// Visit counts one tracked page view.
func (m *Metrics) Visit() {
	if m == nil {
		return
	}
	m.visits.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
