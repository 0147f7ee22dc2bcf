package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSubscribed is a no-op.
func (n *NoopRecorder) IncSubscribed() {}

// IncAlreadySubscribed is a no-op.
func (n *NoopRecorder) IncAlreadySubscribed() {}

// IncInvalidInput is a no-op.
func (n *NoopRecorder) IncInvalidInput() {}

// IncStorageFailure is a no-op.
func (n *NoopRecorder) IncStorageFailure() {}

// ObserveSubscribeDuration is a no-op.
func (n *NoopRecorder) ObserveSubscribeDuration(duration time.Duration) {}
