package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbluessolutions/n8n/pkg/channels/gochannel"
	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/models"
)

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, events.LifecycleTopic)

	var mu sync.Mutex

	received := make([]*events.ExecutionFinished, 0)
	done := make(chan struct{})

	err = bus.Handle(events.ExecutionFinishedEvent, func(ctx context.Context, event any) error {
		finished, ok := event.(*events.ExecutionFinished)
		require.True(t, ok)

		mu.Lock()
		received = append(received, finished)
		mu.Unlock()

		close(done)

		return nil
	})
	require.NoError(t, err)

	err = bus.Subscribe(ctx)
	require.NoError(t, err)

	event := events.ExecutionFinished{
		BaseEvent:   events.NewBaseEvent(events.ExecutionFinishedEvent, "wf-1"),
		ExecutionID: "exec-1",
		Run:         &models.RunResult{Finished: true, Mode: models.ExecutionModeTrigger},
	}

	err = bus.Publish(ctx, "wf-1", event)
	require.NoError(t, err)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, received, 1)
	assert.Equal(t, "exec-1", received[0].ExecutionID)
	assert.Equal(t, "wf-1", received[0].WorkflowID)
	assert.True(t, received[0].Run.Finished)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, events.LifecycleTopic)

	assert.NotEmpty(t, bus.GenerateID())
	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
