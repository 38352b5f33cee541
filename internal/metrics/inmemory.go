package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered   uint64
	UserLogins        uint64
	AuthFailures      uint64
	EntitiesCreated   uint64
	EntityCacheHits   uint64
	EntityCacheMisses uint64
	ReviewsCreated    uint64
	AggregateUpdates  uint64

	EventsPublished    uint64
	EventsDropped      uint64
	EventsProcessed    uint64
	EventsFailed       uint64
	EventsDeadLettered uint64
	LastBatchSize      uint64
	QueueDepth         int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered   uint64
	userLogins        uint64
	authFailures      uint64
	entitiesCreated   uint64
	entityCacheHits   uint64
	entityCacheMisses uint64
	reviewsCreated    uint64
	aggregateUpdates  uint64

	eventsPublished    uint64
	eventsDropped      uint64
	eventsProcessed    uint64
	eventsFailed       uint64
	eventsDeadLettered uint64
	lastBatchSize      uint64
	queueDepth         int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:   atomic.LoadUint64(&m.usersRegistered),
		UserLogins:        atomic.LoadUint64(&m.userLogins),
		AuthFailures:      atomic.LoadUint64(&m.authFailures),
		EntitiesCreated:   atomic.LoadUint64(&m.entitiesCreated),
		EntityCacheHits:   atomic.LoadUint64(&m.entityCacheHits),
		EntityCacheMisses: atomic.LoadUint64(&m.entityCacheMisses),
		ReviewsCreated:    atomic.LoadUint64(&m.reviewsCreated),
		AggregateUpdates:  atomic.LoadUint64(&m.aggregateUpdates),

		EventsPublished:    atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:      atomic.LoadUint64(&m.eventsDropped),
		EventsProcessed:    atomic.LoadUint64(&m.eventsProcessed),
		EventsFailed:       atomic.LoadUint64(&m.eventsFailed),
		EventsDeadLettered: atomic.LoadUint64(&m.eventsDeadLettered),
		LastBatchSize:      atomic.LoadUint64(&m.lastBatchSize),
		QueueDepth:         atomic.LoadInt64(&m.queueDepth),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserLoggedIn increments the login counter.
func (m *InMemoryRecorder) IncUserLoggedIn() {
	atomic.AddUint64(&m.userLogins, 1)
}

// IncAuthFailure increments the failed-authentication counter.
func (m *InMemoryRecorder) IncAuthFailure() {
	atomic.AddUint64(&m.authFailures, 1)
}

// IncEntityCreated increments the entity creation counter.
func (m *InMemoryRecorder) IncEntityCreated() {
	atomic.AddUint64(&m.entitiesCreated, 1)
}

// IncEntityCacheHit increments the entity cache hit counter.
func (m *InMemoryRecorder) IncEntityCacheHit() {
	atomic.AddUint64(&m.entityCacheHits, 1)
}

// IncEntityCacheMiss increments the entity cache miss counter.
func (m *InMemoryRecorder) IncEntityCacheMiss() {
	atomic.AddUint64(&m.entityCacheMisses, 1)
}

// IncReviewCreated increments the review creation counter.
func (m *InMemoryRecorder) IncReviewCreated() {
	atomic.AddUint64(&m.reviewsCreated, 1)
}

// IncAggregateUpdated increments the aggregate propagation counter.
func (m *InMemoryRecorder) IncAggregateUpdated() {
	atomic.AddUint64(&m.aggregateUpdates, 1)
}

// IncReviewEventPublished counts a publish attempt by outcome.
func (m *InMemoryRecorder) IncReviewEventPublished(status string) {
	switch status {
	case "dropped":
		atomic.AddUint64(&m.eventsDropped, 1)
	default:
		atomic.AddUint64(&m.eventsPublished, 1)
	}
}

// IncReviewEventProcessed counts a consumed event by outcome.
func (m *InMemoryRecorder) IncReviewEventProcessed(status string) {
	switch status {
	case "failed":
		atomic.AddUint64(&m.eventsFailed, 1)
	case "dead_lettered":
		atomic.AddUint64(&m.eventsDeadLettered, 1)
	default:
		atomic.AddUint64(&m.eventsProcessed, 1)
	}
}

// ObserveReviewEventBatchSize records the most recent batch size.
func (m *InMemoryRecorder) ObserveReviewEventBatchSize(size int) {
	atomic.StoreUint64(&m.lastBatchSize, uint64(size))
}

// SetReviewEventQueueDepth records the current stream backlog.
func (m *InMemoryRecorder) SetReviewEventQueueDepth(depth int64) {
	atomic.StoreInt64(&m.queueDepth, depth)
}
