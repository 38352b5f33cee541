package handler

import (
	"fmt"
	"net/http"

	"github.com/ratehub/ratehub/internal/metrics"
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

	writeMetric(w, "ratehub_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "ratehub_user_logins_total %d\n", snap.UserLogins)
	writeMetric(w, "ratehub_auth_failures_total %d\n", snap.AuthFailures)

	writeMetric(w, "ratehub_entities_created_total %d\n", snap.EntitiesCreated)
	writeMetric(w, "ratehub_entity_cache_hits_total %d\n", snap.EntityCacheHits)
	writeMetric(w, "ratehub_entity_cache_misses_total %d\n", snap.EntityCacheMisses)

	writeMetric(w, "ratehub_reviews_created_total %d\n", snap.ReviewsCreated)
	writeMetric(w, "ratehub_aggregate_updates_total %d\n", snap.AggregateUpdates)

	writeMetric(w, "ratehub_review_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "ratehub_review_events_published_total{status=\"dropped\"} %d\n", snap.EventsDropped)
	writeMetric(w, "ratehub_review_events_processed_total{status=\"success\"} %d\n", snap.EventsProcessed)
	writeMetric(w, "ratehub_review_events_processed_total{status=\"failed\"} %d\n", snap.EventsFailed)
	writeMetric(w, "ratehub_review_events_processed_total{status=\"dead_lettered\"} %d\n", snap.EventsDeadLettered)
	writeMetric(w, "ratehub_review_event_batch_size %d\n", snap.LastBatchSize)
	writeMetric(w, "ratehub_review_event_queue_depth %d\n", snap.QueueDepth)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
