// Package store provides persistence for newsletter subscribers with
// interchangeable backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subletter/subletter/internal/model"
)

// Common errors for subscriber store operations.
var (
	// ErrExists is returned by Insert when a record already holds the email.
	ErrExists = errors.New("subscriber already exists")

	// ErrUnavailable indicates the backend could not be reached in time.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInternal indicates an unexpected backend fault.
	ErrInternal = errors.New("internal store error")
)

// Store persists subscriber records keyed by normalized email.
//
// Insert is conditional: at most one record per email survives, no
// matter how many writers race, and losers receive ErrExists. Lookup
// and Insert hand out copies; mutating a returned subscriber never
// changes stored state. Validation is not a store concern - callers
// pass normalized addresses.
//
// Note the response-shape race: two concurrent subscribers for the same
// new address may observe Subscribed and AlreadySubscribed in either
// order, but the stored data is identical either way.
type Store interface {
	// Lookup returns the record for the given normalized email.
	// The boolean is false when no record exists; absence is not an error.
	Lookup(ctx context.Context, email string) (model.Subscriber, bool, error)

	// Insert creates a record for the given normalized email and returns
	// it. Returns ErrExists if a record is already present.
	Insert(ctx context.Context, email string, metadata map[string]string) (model.Subscriber, error)

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Backend identifiers accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config selects and parameterizes a storage backend.
type Config struct {
	Backend        string
	RedisURL       string
	RedisNamespace string
	DatabaseURL    string
}

// Open constructs the configured storage backend and verifies
// connectivity for the remote variants. Backend matching is
// case-insensitive.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisNamespace)
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("postgres backend requires DATABASE_URL")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Backend)
	}
}

// newSubscriber builds a fresh record for email at insertion time.
// The store, not the caller, assigns identity and timestamps.
func newSubscriber(email string, metadata map[string]string) model.Subscriber {
	return model.Subscriber{
		ID:        uuid.New().String(),
		Email:     email,
		Status:    model.SubscriberStatusActive,
		Metadata:  model.CloneMetadata(metadata),
		CreatedAt: time.Now().UTC(),
	}
}
