// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncUserLoggedIn()
	IncAuthFailure()

	// Entity metrics
	IncEntityCreated()
	IncEntityCacheHit()
	IncEntityCacheMiss()

	// Review workflow metrics
	IncReviewCreated()
	IncAggregateUpdated()

	// Activity pipeline metrics
	IncReviewEventPublished(status string) // status: "success" or "dropped"
	IncReviewEventProcessed(status string) // status: "success", "failed", "dead_lettered"
	ObserveReviewEventBatchSize(size int)
	SetReviewEventQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
