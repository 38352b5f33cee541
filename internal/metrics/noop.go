package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncUserRegistered()   {}
func (NoopRecorder) IncUserLoggedIn()     {}
func (NoopRecorder) IncAuthFailure()      {}
func (NoopRecorder) IncEntityCreated()    {}
func (NoopRecorder) IncEntityCacheHit()   {}
func (NoopRecorder) IncEntityCacheMiss()  {}
func (NoopRecorder) IncReviewCreated()    {}
func (NoopRecorder) IncAggregateUpdated() {}

func (NoopRecorder) IncReviewEventPublished(string)  {}
func (NoopRecorder) IncReviewEventProcessed(string)  {}
func (NoopRecorder) ObserveReviewEventBatchSize(int) {}
func (NoopRecorder) SetReviewEventQueueDepth(int64)  {}
