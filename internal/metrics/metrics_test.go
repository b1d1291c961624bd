package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncLogin("success")
	m.IncLogin("success")
	m.IncLogin("invalid_credentials")
	m.IncAuthDenial("expired")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthDenials.WithLabelValues("expired")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration
	first, second := New(), New()
	first.IncRegistration("success")

	assert.Equal(t, 0.0, testutil.ToFloat64(second.Registrations.WithLabelValues("success")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncProfileEdit("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `insured_profile_edits_total{result="success"} 1`)
}
