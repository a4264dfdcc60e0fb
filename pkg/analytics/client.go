// Package analytics ships anonymized product telemetry to the analytics
// backend. Events are batched in memory and flushed on size, on the periodic
// pulse, and on shutdown.
package analytics

import "context"

// Client is the outbound analytics contract.
type Client interface {
	// Identify reports instance-level traits once per boot.
	Identify(ctx context.Context, traits map[string]any) error
	// Track records a single named event.
	Track(ctx context.Context, eventName string, properties map[string]any) error
	// TrackExecution aggregates one execution outcome into the per-workflow
	// counters shipped with the next pulse.
	TrackExecution(ctx context.Context, properties map[string]any) error
	// FlushOnShutdown drains all buffered events and counters. It returns
	// when the backend acknowledged the final batch or the context ended.
	FlushOnShutdown(ctx context.Context) error
}

// NoopClient discards all telemetry. Used when analytics is disabled.
type NoopClient struct{}

func (NoopClient) Identify(ctx context.Context, traits map[string]any) error {
	return nil
}

func (NoopClient) Track(ctx context.Context, eventName string, properties map[string]any) error {
	return nil
}

func (NoopClient) TrackExecution(ctx context.Context, properties map[string]any) error {
	return nil
}

func (NoopClient) FlushOnShutdown(ctx context.Context) error {
	return nil
}
