package cmd

import (
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/techbluessolutions/n8n/pkg/telemetry"
)

// NewDeduper creates the duplicate-completion guard. With a Redis URL the
// guard is shared across relay instances; without one it is in-process only.
func NewDeduper(redisURL string, ttl time.Duration, logger *slog.Logger) telemetry.Deduper {
	if redisURL == "" {
		logger.Info("Using in-memory outcome dedup guard")

		return telemetry.NewMemoryDeduper(ttl)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse redis url: %w", err))
	}

	return telemetry.NewRedisDeduper(redis.NewClient(opts), ttl)
}
