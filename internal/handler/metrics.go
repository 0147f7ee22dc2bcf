package handler

import (
	"fmt"
	"net/http"

	"github.com/subletter/subletter/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "subletter_subscriptions_total{outcome=\"subscribed\"} %d\n", snap.Subscribed)
	writeMetric(w, "subletter_subscriptions_total{outcome=\"already_subscribed\"} %d\n", snap.AlreadySubscribed)
	writeMetric(w, "subletter_subscriptions_total{outcome=\"invalid_input\"} %d\n", snap.InvalidInput)
	writeMetric(w, "subletter_subscriptions_total{outcome=\"storage_failure\"} %d\n", snap.StorageFailures)

	writeMetric(w, "subletter_subscribe_duration_seconds_count %d\n", snap.SubscribeDurationCount)
	writeMetric(w, "subletter_subscribe_duration_seconds_sum %.6f\n", float64(snap.SubscribeDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
