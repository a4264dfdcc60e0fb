package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/techbluessolutions/n8n/pkg/events"
)

// Metadata key carrying the dotted event name on published messages.
const EventNameMetadataKey = "event_name"

// BusSink publishes audit events to the audit topic of the event bus.
type BusSink struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewBusSink(publisher message.Publisher, topic string, logger *slog.Logger) *BusSink {
	return &BusSink{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With("module", "audit_sink"),
	}
}

func (s *BusSink) SendAuditEvent(ctx context.Context, event events.AuditEvent) error {
	return s.publish(ctx, event)
}

func (s *BusSink) SendWorkflowEvent(ctx context.Context, event events.AuditEvent) error {
	return s.publish(ctx, event)
}

func (s *BusSink) SendNodeEvent(ctx context.Context, event events.AuditEvent) error {
	return s.publish(ctx, event)
}

func (s *BusSink) publish(ctx context.Context, event events.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event %s: %w", event.EventName, err)
	}

	msg := message.NewMessage("msg-"+watermill.NewULID(), payload)
	msg.Metadata.Set(EventNameMetadataKey, string(event.EventName))

	err = s.publisher.Publish(s.topic, msg)
	if err != nil {
		return fmt.Errorf("failed to publish audit event %s: %w", event.EventName, err)
	}

	return nil
}
