package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Subscribed               uint64
	AlreadySubscribed        uint64
	InvalidInput             uint64
	StorageFailures          uint64
	SubscribeDurationCount   uint64
	SubscribeDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics
// endpoint and is convenient in tests.
type InMemoryRecorder struct {
	subscribed               uint64
	alreadySubscribed        uint64
	invalidInput             uint64
	storageFailures          uint64
	subscribeDurationCount   uint64
	subscribeDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Subscribed:               atomic.LoadUint64(&m.subscribed),
		AlreadySubscribed:        atomic.LoadUint64(&m.alreadySubscribed),
		InvalidInput:             atomic.LoadUint64(&m.invalidInput),
		StorageFailures:          atomic.LoadUint64(&m.storageFailures),
		SubscribeDurationCount:   atomic.LoadUint64(&m.subscribeDurationCount),
		SubscribeDurationTotalNs: atomic.LoadInt64(&m.subscribeDurationTotalNs),
	}
}

// IncSubscribed increments the new-subscription counter.
func (m *InMemoryRecorder) IncSubscribed() {
	atomic.AddUint64(&m.subscribed, 1)
}

// IncAlreadySubscribed increments the duplicate-subscription counter.
func (m *InMemoryRecorder) IncAlreadySubscribed() {
	atomic.AddUint64(&m.alreadySubscribed, 1)
}

// IncInvalidInput increments the rejected-input counter.
func (m *InMemoryRecorder) IncInvalidInput() {
	atomic.AddUint64(&m.invalidInput, 1)
}

// IncStorageFailure increments the storage failure counter.
func (m *InMemoryRecorder) IncStorageFailure() {
	atomic.AddUint64(&m.storageFailures, 1)
}

// ObserveSubscribeDuration records subscribe call duration.
func (m *InMemoryRecorder) ObserveSubscribeDuration(duration time.Duration) {
	atomic.AddUint64(&m.subscribeDurationCount, 1)
	atomic.AddInt64(&m.subscribeDurationTotalNs, duration.Nanoseconds())
}
