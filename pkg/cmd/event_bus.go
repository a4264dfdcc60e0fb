// Package cmd provides shared constructors for the relay binaries.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/techbluessolutions/n8n/pkg/audit"
	"github.com/techbluessolutions/n8n/pkg/channels/gochannel"
	"github.com/techbluessolutions/n8n/pkg/channels/kafka"
	"github.com/techbluessolutions/n8n/pkg/eventbus"
)

const serviceName = "telemetry-relay"

// NewEventBus creates the lifecycle event bus for the given provider.
func NewEventBus(provider, topic string, logger *slog.Logger) eventbus.EventBus {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, serviceName)
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub, topic)
	case "gochannel":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create in-memory pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub, topic)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}

// NewAuditSink creates the outbound audit sink on its own publisher so audit
// traffic never contends with lifecycle consumption.
func NewAuditSink(provider, topic string, logger *slog.Logger) audit.Sink {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, _, err := kafka.CreateChannel(wmLogger, serviceName+"-audit")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka audit publisher: %w", err))
		}

		return audit.NewBusSink(pub, topic, logger)
	case "gochannel":
		pub, _, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create in-memory audit publisher: %w", err))
		}

		return audit.NewBusSink(pub, topic, logger)
	case "none":
		return audit.NoopSink{}
	default:
		panic("Unsupported audit sink provider: " + provider)
	}
}
