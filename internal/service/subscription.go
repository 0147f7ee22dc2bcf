// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/subletter/subletter/internal/email"
	"github.com/subletter/subletter/internal/metrics"
	"github.com/subletter/subletter/internal/model"
	"github.com/subletter/subletter/internal/store"
)

// Outcome classifies the result of a subscribe attempt. The set is
// closed: callers can switch over it exhaustively.
type Outcome string

const (
	// OutcomeSubscribed means a new record was created.
	OutcomeSubscribed Outcome = "subscribed"
	// OutcomeAlreadySubscribed means the address already had a record.
	OutcomeAlreadySubscribed Outcome = "already_subscribed"
	// OutcomeInvalidInput means the address failed validation.
	OutcomeInvalidInput Outcome = "invalid_input"
	// OutcomeStorageFailure means the store could not complete the attempt.
	OutcomeStorageFailure Outcome = "storage_failure"
)

// Result carries the outcome of a subscribe attempt.
//
// Subscriber is set when the attempt created a record or found the
// existing one; it stays nil when a lost insert race settled the
// outcome. Err is set only for OutcomeStorageFailure and wraps the
// store's error for logging; it is never surfaced to clients verbatim.
type Result struct {
	Outcome    Outcome
	Subscriber *model.Subscriber
	Err        error
}

// SubscriptionService handles newsletter subscription logic.
type SubscriptionService struct {
	store   store.Store
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(st store.Store, logger *slog.Logger, recorder metrics.Recorder) *SubscriptionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SubscriptionService{
		store:   st,
		logger:  logger,
		metrics: recorder,
	}
}

// Subscribe validates rawEmail and records a subscription. Repeating a
// subscribe for the same address is not an error; the attempt reports
// OutcomeAlreadySubscribed and the stored record is untouched.
//
// The store is never contacted when validation rejects the input.
// Insert conflicts from concurrent subscribers also resolve to
// OutcomeAlreadySubscribed: by then the address is subscribed either way.
func (s *SubscriptionService) Subscribe(ctx context.Context, rawEmail string, metadata map[string]string) Result {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSubscribeDuration(time.Since(start))
	}()

	normalized, ok := email.Normalize(rawEmail)
	if !ok {
		s.metrics.IncInvalidInput()
		s.logger.Warn("rejected subscription email")
		return Result{Outcome: OutcomeInvalidInput}
	}

	existing, found, err := s.store.Lookup(ctx, normalized)
	if err != nil {
		s.metrics.IncStorageFailure()
		s.logger.Error("subscriber lookup failed", "error", err)
		return Result{Outcome: OutcomeStorageFailure, Err: err}
	}
	if found {
		s.metrics.IncAlreadySubscribed()
		s.logger.Debug("duplicate subscription", "email", existing.Email)
		return Result{Outcome: OutcomeAlreadySubscribed, Subscriber: &existing}
	}

	sub, err := s.store.Insert(ctx, normalized, metadata)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			// Lost the insert race to a concurrent subscriber.
			s.metrics.IncAlreadySubscribed()
			s.logger.Debug("duplicate subscription", "email", normalized)
			return Result{Outcome: OutcomeAlreadySubscribed}
		}
		s.metrics.IncStorageFailure()
		s.logger.Error("subscriber insert failed", "error", err)
		return Result{Outcome: OutcomeStorageFailure, Err: err}
	}

	s.metrics.IncSubscribed()
	s.logger.Info("subscribed", "email", sub.Email, "subscriber_id", sub.ID)
	return Result{Outcome: OutcomeSubscribed, Subscriber: &sub}
}
