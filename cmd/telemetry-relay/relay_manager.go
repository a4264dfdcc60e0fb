package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/techbluessolutions/n8n/pkg/analytics"
	"github.com/techbluessolutions/n8n/pkg/audit"
	"github.com/techbluessolutions/n8n/pkg/config"
	"github.com/techbluessolutions/n8n/pkg/eventbus"
	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/otelhelper"
	"github.com/techbluessolutions/n8n/pkg/registry"
	"github.com/techbluessolutions/n8n/pkg/sharing"
	"github.com/techbluessolutions/n8n/pkg/telemetry"
	"github.com/techbluessolutions/n8n/pkg/web"
)

type RelayManager struct {
	instanceID string
	cfg        config.RelayConfigFile
	logger     *slog.Logger
	eventBus   eventbus.EventBus
	auditSink  audit.Sink
	analytics  analytics.Client
	dispatcher *telemetry.Dispatcher
	relay      *telemetry.EventRelay
	pulse      *analytics.Pulse
	shutdown   *telemetry.ShutdownCoordinator
	tracer     trace.Tracer
}

func NewRelayManager(
	instanceID string,
	cfg config.RelayConfigFile,
	eventBus eventbus.EventBus,
	auditSink audit.Sink,
	analyticsClient analytics.Client,
	deduper telemetry.Deduper,
	lookup sharing.RoleLookup,
	logger *slog.Logger,
) *RelayManager {
	dispatcher := telemetry.NewDispatcher(analyticsClient, auditSink, logger)

	relay := telemetry.NewEventRelay(
		dispatcher,
		graph.NewDefaultGenerator(),
		registry.NewDefaultNodeTypes(logger),
		sharing.NewResolver(lookup, logger),
		deduper,
		logger,
	)

	return &RelayManager{
		instanceID: instanceID,
		cfg:        cfg,
		logger:     logger.With("module", "relay_manager"),
		eventBus:   eventBus,
		auditSink:  auditSink,
		analytics:  analyticsClient,
		dispatcher: dispatcher,
		relay:      relay,
		shutdown:   telemetry.NewShutdownCoordinator(analyticsClient, logger),
	}
}

func (m *RelayManager) Start(ctx context.Context, port int) error {
	m.logger.InfoContext(ctx, "Starting relay manager")

	tracer, err := otelhelper.NewTracer(ctx, "telemetry-relay")
	if err != nil {
		m.logger.WarnContext(ctx, "Tracing disabled", "error", err)
	} else {
		m.tracer = tracer
	}

	err = m.registerHandlers()
	if err != nil {
		return err
	}

	err = m.eventBus.Subscribe(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	m.relay.Identify(ctx, map[string]any{
		"instance_id": m.instanceID,
		"go_version":  runtime.Version(),
		"os":          runtime.GOOS,
	})

	if sender, ok := m.analytics.(analytics.PulseSender); ok {
		m.pulse = analytics.NewPulse(sender, m.logger)

		err = m.pulse.Start(ctx, m.cfg.Analytics.PulseSchedule)
		if err != nil {
			return err
		}
	}

	app := m.newApp()

	go func() {
		err := app.Listen(":" + strconv.Itoa(port))
		if err != nil {
			m.logger.ErrorContext(ctx, "Ingest API stopped", "error", err)
		}
	}()

	m.logger.InfoContext(ctx, "Relay started successfully", "port", port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	m.logger.InfoContext(ctx, "Shutting down relay...")

	err = app.Shutdown()
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to shut down ingest API", "error", err)
	}

	if m.pulse != nil {
		m.pulse.Stop()
	}

	m.dispatcher.Wait()
	m.shutdown.Flush(ctx)

	return m.eventBus.Close()
}

func (m *RelayManager) newApp() *fiber.App {
	handlers := web.NewIngestHandlers(
		m.eventBus,
		m.auditSink,
		validator.New(validator.WithRequiredStructEnabled()),
		m.logger,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("n8n Telemetry Relay")
	})

	v1 := app.Group("/v1")
	v1.Post("/events/execution-started", handlers.ExecutionStarted)
	v1.Post("/events/node-started", handlers.NodeStarted)
	v1.Post("/events/node-finished", handlers.NodeFinished)
	v1.Post("/events/execution-finished", handlers.ExecutionFinished)
	v1.Post("/events/execution-crashed", handlers.ExecutionCrashed)
	v1.Post("/audit", handlers.AuditEvent)

	return app
}

func (m *RelayManager) registerHandlers() error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.ExecutionStartedEvent:  m.handleExecutionStarted,
		events.NodeStartedEvent:       m.handleNodeStarted,
		events.NodeFinishedEvent:      m.handleNodeFinished,
		events.ExecutionFinishedEvent: m.handleExecutionFinished,
		events.ExecutionCrashedEvent:  m.handleExecutionCrashed,
	}

	for eventType, handler := range handlers {
		err := m.eventBus.Handle(eventType, handler)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *RelayManager) handleExecutionStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.ExecutionStarted)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for ExecutionStarted")

		return nil
	}

	m.relay.ExecutionStarted(ctx, started)

	return nil
}

func (m *RelayManager) handleNodeStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.NodeStarted)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for NodeStarted")

		return nil
	}

	m.relay.NodeStarted(ctx, started)

	return nil
}

func (m *RelayManager) handleNodeFinished(ctx context.Context, event any) error {
	finished, ok := event.(*events.NodeFinished)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for NodeFinished")

		return nil
	}

	m.relay.NodeFinished(ctx, finished)

	return nil
}

func (m *RelayManager) handleExecutionFinished(ctx context.Context, event any) error {
	finished, ok := event.(*events.ExecutionFinished)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for ExecutionFinished")

		return nil
	}

	if m.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, m.tracer, "relay.execution_finished",
			attribute.String(otelhelper.ExecutionIDKey, finished.ExecutionID),
			attribute.String(otelhelper.WorkflowIDKey, finished.WorkflowID),
		)
		defer span.End()

		err := m.relay.ExecutionFinished(ctx, finished)
		if err != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.ExecutionIDKey, finished.ExecutionID))
			m.logger.ErrorContext(ctx, "Failed to process execution outcome", "error", err)
		}

		return nil
	}

	err := m.relay.ExecutionFinished(ctx, finished)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to process execution outcome", "error", err)
	}

	return nil
}

func (m *RelayManager) handleExecutionCrashed(ctx context.Context, event any) error {
	crashed, ok := event.(*events.ExecutionCrashed)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for ExecutionCrashed")

		return nil
	}

	m.relay.ExecutionCrashed(ctx, crashed)

	return nil
}
