// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Subscription outcome counters
	IncSubscribed()
	IncAlreadySubscribed()
	IncInvalidInput()
	IncStorageFailure()

	// Subscribe call latency, storage round trips included
	ObserveSubscribeDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
