package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbluessolutions/n8n/pkg/channels/gochannel"
	"github.com/techbluessolutions/n8n/pkg/events"
)

func TestBusSink_PublishesToAuditTopic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	messages, err := sub.Subscribe(ctx, events.AuditTopic)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	sink := NewBusSink(pub, events.AuditTopic, logger)

	event := events.NewAuditEvent(events.WorkflowSuccess, map[string]any{
		"executionId": "exec-1",
		"workflowId":  "wf-1",
	}, nil)

	err = sink.SendWorkflowEvent(ctx, event)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		assert.Equal(t, string(events.WorkflowSuccess), msg.Metadata.Get(EventNameMetadataKey))

		var decoded events.AuditEvent

		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, events.WorkflowSuccess, decoded.EventName)
		assert.Equal(t, "exec-1", decoded.Payload["executionId"])

		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for audit message")
	}
}
