package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type hangingAnalytics struct {
	recordingAnalytics
}

func (h *hangingAnalytics) FlushOnShutdown(ctx context.Context) error {
	select {}
}

func TestShutdownCoordinatorFlushCompletes(t *testing.T) {
	analyticsClient := &recordingAnalytics{}
	coordinator := NewShutdownCoordinator(analyticsClient, testLogger())

	start := time.Now()
	coordinator.Flush(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, analyticsClient.flushes)
}

func TestShutdownCoordinatorAbandonsHangingFlush(t *testing.T) {
	coordinator := NewShutdownCoordinator(&hangingAnalytics{}, testLogger())
	coordinator.timeout = 20 * time.Millisecond

	done := make(chan struct{})

	go func() {
		coordinator.Flush(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown flush did not respect its deadline")
	}
}
