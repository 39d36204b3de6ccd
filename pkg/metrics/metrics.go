// Package metrics counts authentication, authorization and calendar
// outcomes and exposes them for Prometheus scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeMissing            = "missing"
	OutcomeInvalid            = "invalid"
	OutcomeExpired            = "expired"
	OutcomeGone               = "identity_gone"
	OutcomeNotConfigured      = "not_configured"
	OutcomeReauthorize        = "reauthorize"
	OutcomeError              = "error"
)

// Recorder is what services report to. Collector and Noop implement it.
type Recorder interface {
	RecordLogin(kind, outcome string)
	RecordRegistration(outcome string)
	RecordTokenValidation(outcome string)
	RecordAccessDenied(role string)
	RecordCalendarCall(op, outcome string, d time.Duration)
}

// Collector records to Prometheus.
type Collector struct {
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	validations   *prometheus.CounterVec
	denials       *prometheus.CounterVec
	calendarCalls *prometheus.CounterVec
	calendarTime  *prometheus.HistogramVec
}

// NewCollector registers the service metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_login_attempts_total",
			Help: "Login attempts by resolved identity kind and outcome.",
		}, []string{"kind", "outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_registrations_total",
			Help: "Patient registrations by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_token_validations_total",
			Help: "Session token validations by outcome.",
		}, []string{"outcome"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_access_denied_total",
			Help: "Requests rejected by a role gate, by caller role.",
		}, []string{"role"}),
		calendarCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_calendar_calls_total",
			Help: "Calendar provider operations by outcome.",
		}, []string{"op", "outcome"}),
		calendarTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authcore_calendar_call_duration_seconds",
			Help:    "Calendar provider operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(c.logins, c.registrations, c.validations, c.denials, c.calendarCalls, c.calendarTime)
	return c
}

func (c *Collector) RecordLogin(kind, outcome string) {
	if kind == "" {
		kind = "unknown"
	}
	c.logins.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTokenValidation(outcome string) {
	c.validations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAccessDenied(role string) {
	if role == "" {
		role = "none"
	}
	c.denials.WithLabelValues(role).Inc()
}

func (c *Collector) RecordCalendarCall(op, outcome string, d time.Duration) {
	c.calendarCalls.WithLabelValues(op, outcome).Inc()
	c.calendarTime.WithLabelValues(op).Observe(d.Seconds())
}

// Handler serves the gathered metrics in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordLogin(string, string)                       {}
func (Noop) RecordRegistration(string)                        {}
func (Noop) RecordTokenValidation(string)                     {}
func (Noop) RecordAccessDenied(string)                        {}
func (Noop) RecordCalendarCall(string, string, time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Noop{}
)
