// Package model defines domain entities for the application.
package model

import (
	"time"
)

// SubscriberStatus represents the lifecycle state of a subscriber.
type SubscriberStatus string

const (
	// SubscriberStatusActive is assigned to every new subscription.
	// No other transitions exist; unsubscribing is out of scope.
	SubscriberStatusActive SubscriberStatus = "active"
)

// Subscriber represents a newsletter subscription record.
// Records are created once and never updated or deleted.
type Subscriber struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Status    SubscriberStatus  `json:"status"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Clone returns a copy of the subscriber with its own metadata map.
// Stores hand out clones so callers can never mutate stored state.
func (s Subscriber) Clone() Subscriber {
	out := s
	out.Metadata = CloneMetadata(s.Metadata)
	return out
}

// CloneMetadata returns a copy of m, or nil if m is empty.
func CloneMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
