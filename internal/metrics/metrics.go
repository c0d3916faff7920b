// Package metrics collects Prometheus metrics for session and appointment activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth-state resolution outcomes
const (
	OutcomeAuthenticated   = "authenticated"
	OutcomeSignedOut       = "signed_out"
	OutcomeProfileMissing  = "profile_missing"
	OutcomeProfileInvalid  = "profile_invalid"
	OutcomeProfileReadFail = "profile_read_failed"
)

// Recorder is what usecases report to
type Recorder interface {
	RecordAuthState(outcome string)
	RecordSessionOperation(operation string, err error)
	RecordAppointmentFetch(role string, status string, count int)
}

// Collector records to Prometheus
type Collector struct {
	authStates        *prometheus.CounterVec
	sessionOperations *prometheus.CounterVec
	appointmentFetch  *prometheus.CounterVec
	appointmentsRead  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docapp_auth_state_events_total",
			Help: "Auth-state events resolved by the session manager, by outcome.",
		}, []string{"outcome"}),
		sessionOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docapp_session_operations_total",
			Help: "Login, signup and logout calls, by result.",
		}, []string{"operation", "result"}),
		appointmentFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docapp_appointment_fetch_total",
			Help: "Appointment fetches, by role and status.",
		}, []string{"role", "status"}),
		appointmentsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docapp_appointments_read_total",
			Help: "Appointment records returned to callers.",
		}),
	}

	reg.MustRegister(c.authStates, c.sessionOperations, c.appointmentFetch, c.appointmentsRead)
	return c
}

func (c *Collector) RecordAuthState(outcome string) {
	c.authStates.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSessionOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.sessionOperations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordAppointmentFetch(role string, status string, count int) {
	c.appointmentFetch.WithLabelValues(role, status).Inc()
	c.appointmentsRead.Add(float64(count))
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards everything; used where metrics are not wired
type Nop struct{}

func (Nop) RecordAuthState(string)                     {}
func (Nop) RecordSessionOperation(string, error)       {}
func (Nop) RecordAppointmentFetch(string, string, int) {}
