package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unknownLabel = "unknown"

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_decisions_total",
		Help: "Alert decisions by event kind, outcome and suppression reason",
	}, []string{"kind", "outcome", "reason"})

	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_sessions_total",
		Help: "Override sessions started by event kind and whether the media stream was boosted",
	}, []string{"kind", "boosted"})

	tonesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_tones_total",
		Help: "Tones emitted by event kind and result",
	}, []string{"kind", "result"})

	restoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_restores_total",
		Help: "Audio restorations by event kind and result",
	}, []string{"kind", "result"})

	deviceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_device_errors_total",
		Help: "Failed audio or notification device calls by operation",
	}, []string{"op"})

	skippedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_override_skipped_records_total",
		Help: "Persisted contacts or schedules skipped as malformed",
	}, []string{"store"})
)

// RecordDecision counts one decision.
func RecordDecision(kind, outcome, reason string) {
	if reason == "" {
		reason = "none"
	}

	decisionsTotal.WithLabelValues(
		normalizeKind(kind),
		normalize(outcome, "alert", "suppressed"),
		normalize(reason, "none", "disabled", "not_important", "quiet_hours", "unknown_caller"),
	).Inc()
}

// RecordSession counts one started override session.
func RecordSession(kind string, boosted bool) {
	sessionsTotal.WithLabelValues(normalizeKind(kind), strconv.FormatBool(boosted)).Inc()
}

// RecordTone counts one tone attempt.
func RecordTone(kind string, ok bool) {
	tonesTotal.WithLabelValues(normalizeKind(kind), result(ok)).Inc()
}

// RecordRestore counts one restoration attempt.
func RecordRestore(kind string, ok bool) {
	restoresTotal.WithLabelValues(normalizeKind(kind), result(ok)).Inc()
}

// RecordDeviceError counts one failed device call.
func RecordDeviceError(op string) {
	deviceErrorsTotal.WithLabelValues(normalize(op,
		"ringer_mode", "set_ringer_mode", "stream_volume", "set_stream_volume",
		"max_stream_volume", "emit_tone", "notify",
	)).Inc()
}

// RecordSkippedRecord counts one malformed record skipped by a store.
func RecordSkippedRecord(store string) {
	skippedRecordsTotal.WithLabelValues(normalize(store, "contacts", "schedules", "settings")).Inc()
}

func normalizeKind(kind string) string {
	return normalize(kind, "call", "sms")
}

func normalize(value string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}

	return unknownLabel
}

func result(ok bool) string {
	if ok {
		return "ok"
	}

	return "error"
}
