package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subletter/subletter/internal/model"
)

// Postgres is a relational store backend. The email column is the
// primary key and the conditional insert is ON CONFLICT DO NOTHING,
// so duplicate races are settled inside the database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool, verifies connectivity and
// applies pending schema migrations.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Lookup returns the record for email, if present.
func (p *Postgres) Lookup(ctx context.Context, email string) (model.Subscriber, bool, error) {
	query := `
		SELECT id, email, status, metadata, created_at
		FROM subscribers
		WHERE email = $1
	`

	var (
		sub    model.Subscriber
		status string
		meta   []byte
	)

	err := p.pool.QueryRow(ctx, query, email).Scan(
		&sub.ID,
		&sub.Email,
		&status,
		&meta,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Subscriber{}, false, nil
		}
		return model.Subscriber{}, false, classifyPostgresErr("select subscriber", err)
	}

	sub.Status = model.SubscriberStatus(status)

	if len(meta) > 0 {
		var m map[string]string
		if err := json.Unmarshal(meta, &m); err != nil {
			return model.Subscriber{}, false, fmt.Errorf("%w: decode metadata: %v", ErrInternal, err)
		}
		if len(m) > 0 {
			sub.Metadata = m
		}
	}

	return sub, true, nil
}

// Insert creates a record for email. RowsAffected distinguishes a
// fresh insert from a conflict with an existing row.
func (p *Postgres) Insert(ctx context.Context, email string, metadata map[string]string) (model.Subscriber, error) {
	sub := newSubscriber(email, metadata)

	meta, err := encodeMetadata(sub.Metadata)
	if err != nil {
		return model.Subscriber{}, fmt.Errorf("%w: encode metadata: %v", ErrInternal, err)
	}

	query := `
		INSERT INTO subscribers (id, email, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		string(sub.Status),
		meta,
		sub.CreatedAt,
	)
	if err != nil {
		return model.Subscriber{}, classifyPostgresErr("insert subscriber", err)
	}

	if tag.RowsAffected() == 0 {
		return model.Subscriber{}, ErrExists
	}

	return sub, nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Postgres.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// encodeMetadata renders metadata as a JSON object for the jsonb
// column; empty metadata becomes {} rather than NULL.
func encodeMetadata(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// classifyPostgresErr maps driver errors onto the store error taxonomy.
// A PgError means the server answered, which is an internal fault;
// context and network errors mean the backend was unreachable.
func classifyPostgresErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
