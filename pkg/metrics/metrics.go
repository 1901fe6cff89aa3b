// Package metrics exports wizard and HTTP host activity as Prometheus
// metrics. Metrics implements wizard.Observer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const namespace = "formwizard"

// Metrics holds the collectors. Create it once per registerer.
type Metrics struct {
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	submissions *prometheus.CounterVec
	inFlight    *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
	sessions    prometheus.Gauge
	requests    *prometheus.CounterVec
}

var _ wizard.Observer = (*Metrics)(nil)

// New registers the collectors with reg, or with the default registerer when
// reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_transitions_total",
			Help:      "Step changes by direction (advance, retreat, exit).",
		}, []string{"form", "direction"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_failures_total",
			Help:      "Blocked advances by step and failure code.",
		}, []string{"form", "step", "code"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Finished submissions by outcome.",
		}, []string{"form", "outcome"}),
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Submissions waiting for the backend.",
		}, []string{"form"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Submission latency, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10, 30},
		}, []string{"form"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open wizard sessions in the HTTP host.",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) StepAdvanced(form string, _, _ int) {
	m.transitions.WithLabelValues(form, "advance").Inc()
}

func (m *Metrics) StepFailed(form string, step int, res validation.Result) {
	m.failures.WithLabelValues(form, strconv.Itoa(step), res.Code).Inc()
}

func (m *Metrics) StepRetreated(form string, _, _ int, exit bool) {
	direction := "retreat"
	if exit {
		direction = "exit"
	}
	m.transitions.WithLabelValues(form, direction).Inc()
}

func (m *Metrics) SubmissionStarted(form string) {
	m.inFlight.WithLabelValues(form).Inc()
}

func (m *Metrics) SubmissionFinished(form string, _ submission.Record, err error, elapsed time.Duration) {
	m.inFlight.WithLabelValues(form).Dec()
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
	m.duration.WithLabelValues(form).Observe(elapsed.Seconds())
}

// SessionOpened and SessionClosed track the HTTP session table.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// ObserveRequest counts one HTTP request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
