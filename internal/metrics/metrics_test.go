package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthState(OutcomeAuthenticated)
	c.RecordAuthState(OutcomeProfileMissing)
	c.RecordAuthState(OutcomeProfileMissing)
	c.RecordSessionOperation("login", nil)
	c.RecordSessionOperation("login", errors.New("boom"))
	c.RecordAppointmentFetch("patient", "ok", 3)
	c.RecordAppointmentFetch("medecin", "failed", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.authStates.WithLabelValues(OutcomeAuthenticated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.authStates.WithLabelValues(OutcomeProfileMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionOperations.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionOperations.WithLabelValues("login", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.appointmentFetch.WithLabelValues("medecin", "failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.appointmentsRead))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAppointmentFetch("patient", "ok", 1)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "docapp_appointment_fetch_total"))
}
