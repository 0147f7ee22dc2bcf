package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	m := NewInMemory()

	m.IncSubscribed()
	m.IncSubscribed()
	m.IncAlreadySubscribed()
	m.IncInvalidInput()
	m.IncStorageFailure()
	m.ObserveSubscribeDuration(250 * time.Millisecond)

	snap := m.Snapshot()

	if snap.Subscribed != 2 {
		t.Errorf("Subscribed = %d, want 2", snap.Subscribed)
	}
	if snap.AlreadySubscribed != 1 {
		t.Errorf("AlreadySubscribed = %d, want 1", snap.AlreadySubscribed)
	}
	if snap.InvalidInput != 1 {
		t.Errorf("InvalidInput = %d, want 1", snap.InvalidInput)
	}
	if snap.StorageFailures != 1 {
		t.Errorf("StorageFailures = %d, want 1", snap.StorageFailures)
	}
	if snap.SubscribeDurationCount != 1 {
		t.Errorf("SubscribeDurationCount = %d, want 1", snap.SubscribeDurationCount)
	}
	if snap.SubscribeDurationTotalNs != (250 * time.Millisecond).Nanoseconds() {
		t.Errorf("SubscribeDurationTotalNs = %d", snap.SubscribeDurationTotalNs)
	}
}

func TestInMemoryRecorder_ConcurrentIncrements(t *testing.T) {
	m := NewInMemory()

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.IncSubscribed()
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().Subscribed; got != workers*perWorker {
		t.Errorf("Subscribed = %d, want %d", got, workers*perWorker)
	}
}

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NewNoop()

	// Must not panic
	r.IncSubscribed()
	r.IncAlreadySubscribed()
	r.IncInvalidInput()
	r.IncStorageFailure()
	r.ObserveSubscribeDuration(time.Second)
}
