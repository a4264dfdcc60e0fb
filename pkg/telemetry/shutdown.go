package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/techbluessolutions/n8n/pkg/analytics"
)

const shutdownFlushTimeout = 3000 * time.Millisecond

// ShutdownCoordinator drains buffered analytics on shutdown with a hard upper
// bound on how long the process waits. A sink that hangs is abandoned, not
// awaited: shutdown never blocks on telemetry.
type ShutdownCoordinator struct {
	analytics analytics.Client
	timeout   time.Duration
	logger    *slog.Logger
}

func NewShutdownCoordinator(analyticsClient analytics.Client, logger *slog.Logger) *ShutdownCoordinator {
	return &ShutdownCoordinator{
		analytics: analyticsClient,
		timeout:   shutdownFlushTimeout,
		logger:    logger.With("module", "shutdown_coordinator"),
	}
}

// Flush races the final analytics flush against the shutdown deadline. It
// always returns; a timed-out flush goroutine is left to die with the
// process.
func (s *ShutdownCoordinator) Flush(ctx context.Context) {
	done := make(chan struct{})

	go func() {
		defer close(done)

		err := s.analytics.FlushOnShutdown(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Final analytics flush failed", "error", err)
		}
	}()

	select {
	case <-done:
		s.logger.DebugContext(ctx, "Final analytics flush completed")
	case <-time.After(s.timeout):
		s.logger.WarnContext(ctx, "Final analytics flush timed out, abandoning",
			"timeout", s.timeout)
	}
}
