package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Completion notifications arrive over an at-least-once transport; the dedup
// guard enforces the one-outcome-per-execution invariant at the consumer
// edge.
type Deduper interface {
	// AlreadySeen marks the execution as processed and reports whether it
	// had been marked before.
	AlreadySeen(ctx context.Context, executionID string) (bool, error)
}

// MemoryDeduper is the in-process guard for single-instance deployments.
type MemoryDeduper struct {
	ttl time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{
		ttl:  ttl,
		seen: make(map[string]time.Time),
	}
}

func (d *MemoryDeduper) AlreadySeen(ctx context.Context, executionID string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for id, markedAt := range d.seen {
		if now.Sub(markedAt) > d.ttl {
			delete(d.seen, id)
		}
	}

	_, seen := d.seen[executionID]
	d.seen[executionID] = now

	return seen, nil
}

// RedisDeduper shares the guard across relay instances.
type RedisDeduper struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisDeduper(client redis.UniversalClient, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) AlreadySeen(ctx context.Context, executionID string) (bool, error) {
	key := "n8n:telemetry:outcome:" + executionID

	set, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark execution outcome: %w", err)
	}

	return !set, nil
}
