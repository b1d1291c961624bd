package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	AuthDenials   *prometheus.CounterVec
	ProfileEdits  *prometheus.CounterVec
}

// New creates and registers all metrics on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insured_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"result"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insured_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"result"}),
		AuthDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insured_auth_denials_total",
			Help: "Rejected bearer credentials by reason",
		}, []string{"reason"}),
		ProfileEdits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insured_profile_edits_total",
			Help: "Profile edit attempts by outcome",
		}, []string{"result"}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncRegistration(result string) {
	m.Registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncAuthDenial(reason string) {
	m.AuthDenials.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncProfileEdit(result string) {
	m.ProfileEdits.WithLabelValues(result).Inc()
}
