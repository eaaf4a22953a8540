package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestUploadMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewUploadMetrics(reg)

	m.ObserveUpload("video", 2*time.Second, nil)
	m.ObserveUpload("Video", time.Second, errors.New("boom"))
	m.IncCompensation("delete", OutcomeSuccess)

	if got := counterValue(t, m.uploads, "video", OutcomeSuccess); got != 1 {
		t.Fatalf("expected 1 successful upload, got %v", got)
	}
	if got := counterValue(t, m.uploads, "video", OutcomeFailure); got != 1 {
		t.Fatalf("expected 1 failed upload, got %v", got)
	}
	if got := counterValue(t, m.compensations, "delete", OutcomeSuccess); got != 1 {
		t.Fatalf("expected 1 compensation, got %v", got)
	}
}

func TestUploadMetricsNilSafe(t *testing.T) {
	var m *UploadMetrics
	m.ObserveUpload("image", time.Second, nil)
	m.IncCompensation("none", OutcomeFailure)

	NewUploadMetrics(nil).ObserveUpload("image", time.Second, nil)
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}
