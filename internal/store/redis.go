package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/subletter/subletter/internal/model"
)

// subscriberKeySegment separates the namespace from the email in keys.
const subscriberKeySegment = ":subscriber:"

// Redis is a key-value store backend. Each record is a JSON document
// under <namespace>:subscriber:<email>; the conditional insert is a
// single SET NX, so concurrent writers cannot both create the key.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis connects to Redis and verifies connectivity. The namespace
// isolates this service's keys within a shared instance.
func NewRedis(ctx context.Context, redisURL, namespace string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Redis{client: client, namespace: namespace}, nil
}

// Lookup returns the record for email, if present.
func (r *Redis) Lookup(ctx context.Context, email string) (model.Subscriber, bool, error) {
	raw, err := r.client.Get(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Subscriber{}, false, nil
		}
		return model.Subscriber{}, false, classifyRedisErr("get subscriber", err)
	}

	var sub model.Subscriber
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return model.Subscriber{}, false, fmt.Errorf("%w: decode subscriber: %v", ErrInternal, err)
	}

	return sub, true, nil
}

// Insert creates a record for email via SET NX with no expiry.
// Subscriptions never lapse on their own.
func (r *Redis) Insert(ctx context.Context, email string, metadata map[string]string) (model.Subscriber, error) {
	sub := newSubscriber(email, metadata)

	doc, err := json.Marshal(sub)
	if err != nil {
		return model.Subscriber{}, fmt.Errorf("%w: encode subscriber: %v", ErrInternal, err)
	}

	created, err := r.client.SetNX(ctx, r.key(email), doc, 0).Result()
	if err != nil {
		return model.Subscriber{}, classifyRedisErr("insert subscriber", err)
	}
	if !created {
		return model.Subscriber{}, ErrExists
	}

	return sub, nil
}

// Ping checks Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Redis.
func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) key(email string) string {
	return r.namespace + subscriberKeySegment + email
}

// classifyRedisErr maps driver errors onto the store error taxonomy:
// unreachable or timed out means ErrUnavailable, anything else the
// server said is ErrInternal.
func classifyRedisErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
