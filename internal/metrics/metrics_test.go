package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordDecision_IncrementsCounter counts a decision under its labels.
func TestRecordDecision_IncrementsCounter(t *testing.T) {
	initial := testutil.ToFloat64(decisionsTotal.WithLabelValues("call", "suppressed", "quiet_hours"))

	RecordDecision("call", "suppressed", "quiet_hours")

	actual := testutil.ToFloat64(decisionsTotal.WithLabelValues("call", "suppressed", "quiet_hours"))
	assert.InDelta(t, initial+1, actual, 0)
}

// TestRecordDecision_NormalizesLabels maps unexpected values onto fixed labels.
func TestRecordDecision_NormalizesLabels(t *testing.T) {
	initial := testutil.ToFloat64(decisionsTotal.WithLabelValues("unknown", "alert", "none"))

	RecordDecision("FAX", " Alert ", "")

	actual := testutil.ToFloat64(decisionsTotal.WithLabelValues("unknown", "alert", "none"))
	assert.InDelta(t, initial+1, actual, 0)
}

// TestRecordSessionAndTones covers the override counters.
func TestRecordSessionAndTones(t *testing.T) {
	sessions := testutil.ToFloat64(sessionsTotal.WithLabelValues("sms", "true"))
	failedTones := testutil.ToFloat64(tonesTotal.WithLabelValues("call", "error"))
	restores := testutil.ToFloat64(restoresTotal.WithLabelValues("call", "ok"))
	deviceErrors := testutil.ToFloat64(deviceErrorsTotal.WithLabelValues("unknown"))
	skipped := testutil.ToFloat64(skippedRecordsTotal.WithLabelValues("schedules"))

	RecordSession("sms", true)
	RecordTone("call", false)
	RecordRestore("call", true)
	RecordDeviceError("self_destruct")
	RecordSkippedRecord("schedules")

	assert.InDelta(t, sessions+1, testutil.ToFloat64(sessionsTotal.WithLabelValues("sms", "true")), 0)
	assert.InDelta(t, failedTones+1, testutil.ToFloat64(tonesTotal.WithLabelValues("call", "error")), 0)
	assert.InDelta(t, restores+1, testutil.ToFloat64(restoresTotal.WithLabelValues("call", "ok")), 0)
	assert.InDelta(t, deviceErrors+1, testutil.ToFloat64(deviceErrorsTotal.WithLabelValues("unknown")), 0)
	assert.InDelta(t, skipped+1, testutil.ToFloat64(skippedRecordsTotal.WithLabelValues("schedules")), 0)
}

// TestHandlerExposesCounters checks the counters are registered with the default registry.
func TestHandlerExposesCounters(t *testing.T) {
	RecordSession("call", false)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.Handler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, strings.Contains(recorder.Body.String(), "alert_override_sessions_total"))
}
