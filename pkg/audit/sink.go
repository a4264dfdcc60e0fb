// Package audit delivers structured security and domain events to the audit
// transport. Delivery is best-effort; the pipeline never waits on it.
package audit

import (
	"context"

	"github.com/techbluessolutions/n8n/pkg/events"
)

// Sink is the outbound audit contract. The three methods map to the audit,
// workflow, and node event streams of the transport; implementations may
// route them to separate topics or collapse them.
type Sink interface {
	SendAuditEvent(ctx context.Context, event events.AuditEvent) error
	SendWorkflowEvent(ctx context.Context, event events.AuditEvent) error
	SendNodeEvent(ctx context.Context, event events.AuditEvent) error
}

// NoopSink discards all events. Used when audit logging is disabled.
type NoopSink struct{}

func (NoopSink) SendAuditEvent(ctx context.Context, event events.AuditEvent) error {
	return nil
}

func (NoopSink) SendWorkflowEvent(ctx context.Context, event events.AuditEvent) error {
	return nil
}

func (NoopSink) SendNodeEvent(ctx context.Context, event events.AuditEvent) error {
	return nil
}
