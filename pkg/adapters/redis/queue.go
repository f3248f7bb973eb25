package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "cascade:"

// Queue implements ports.DescriptorQueue on a Redis list, so that several
// hosts can feed one scene. Batches are stored whole as JSON.
type Queue struct {
	client *backend.Client
	prefix string
	scene  string
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.DescriptorQueue = (*Queue)(nil)

type Option func(*Queue)

// WithTTL expires an idle queue. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		q.ttl = ttl
	}
}

// WithLogger sets the logger reporting batches that fail to decode.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(q *Queue) {
		q.prefix = prefix
	}
}

// New creates a new Redis queue for the named scene.
func New(address, password string, db int, scene string, opts ...Option) *Queue {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, scene, opts...)
}

// NewFromClient creates a new Redis queue from an existing client.
func NewFromClient(client *backend.Client, scene string, opts ...Option) *Queue {
	q := &Queue{
		client: client,
		prefix: defaultPrefix,
		scene:  scene,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) key() string {
	return q.prefix + "queue:" + q.scene
}

// DeadKey is the list holding raw batches Drain could not decode.
func (q *Queue) DeadKey() string {
	return q.prefix + "dead:" + q.scene
}

// Push appends the batch to the tail of the list.
func (q *Queue) Push(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch %s: %w", batch.ID, err)
	}

	pipe := q.client.Pipeline()
	pipe.RPush(ctx, q.key(), data)
	if q.ttl > 0 {
		pipe.Expire(ctx, q.key(), q.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push to redis: %w", err)
	}
	return nil
}

// Drain reads and deletes the list in one transaction, so a batch pushed
// concurrently lands either in this drain or the next one. A batch that does
// not decode is moved to DeadKey and skipped; the others are still returned.
func (q *Queue) Drain(ctx context.Context) ([]domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items *backend.StringSliceCmd
	_, err := q.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		items = pipe.LRange(ctx, q.key(), 0, -1)
		pipe.Del(ctx, q.key())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drain redis queue: %w", err)
	}

	raw, err := items.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis queue: %w", err)
	}
	batches := make([]domain.Batch, 0, len(raw))
	var dead []any
	for i, item := range raw {
		var b domain.Batch
		if err := json.Unmarshal([]byte(item), &b); err != nil {
			q.logger.WarnContext(ctx, "undecodable batch moved to dead letters",
				"key", q.DeadKey(), "position", i, "err", err)
			dead = append(dead, item)
			continue
		}
		batches = append(batches, b)
	}
	if len(dead) > 0 {
		if err := q.client.RPush(context.WithoutCancel(ctx), q.DeadKey(), dead...).Err(); err != nil {
			q.logger.ErrorContext(ctx, "dead letters lost", "key", q.DeadKey(), "count", len(dead), "err", err)
		}
	}
	return batches, nil
}

// Len returns the number of queued batches.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key()).Result()
}

// Client returns the underlying client, for sharing it with a Locker.
func (q *Queue) Client() *backend.Client {
	return q.client
}

// Ping checks the server is reachable.
func (q *Queue) Ping(ctx context.Context) error {
	if err := q.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (q *Queue) Close() error {
	return q.client.Close()
}
