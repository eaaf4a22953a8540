package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// UploadMetrics records media upload activity.
type UploadMetrics struct {
	uploads       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	compensations *prometheus.CounterVec
}

// NewUploadMetrics registers the upload metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewUploadMetrics(reg prometheus.Registerer) *UploadMetrics {
	if reg == nil {
		return &UploadMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Media uploads forwarded to the media service, by resource type and outcome.",
	}, []string{"resource_type", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_upload_duration_seconds",
		Help:    "Time spent waiting on the media service per upload.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"resource_type"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_compensations_total",
		Help: "Orphaned remote assets handled after a failed store write.",
	}, []string{"policy", "outcome"})
	reg.MustRegister(uploads, duration, compensations)
	return &UploadMetrics{
		uploads:       uploads,
		duration:      duration,
		compensations: compensations,
	}
}

// ObserveUpload records one media service round trip.
func (m *UploadMetrics) ObserveUpload(resourceType string, elapsed time.Duration, err error) {
	if m == nil || m.uploads == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	rt := normalizeLabel(resourceType)
	m.uploads.WithLabelValues(rt, outcome).Inc()
	m.duration.WithLabelValues(rt).Observe(elapsed.Seconds())
}

// IncCompensation records how an orphaned asset was handled.
func (m *UploadMetrics) IncCompensation(policy, outcome string) {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.WithLabelValues(normalizeLabel(policy), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "unknown"
	}
	return v
}
