package web

import (
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/techbluessolutions/n8n/pkg/audit"
	"github.com/techbluessolutions/n8n/pkg/eventbus"
	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/models"
)

// IngestHandlers accepts lifecycle and audit events over HTTP. Lifecycle
// events are republished onto the event bus so they take the same path as
// bus-native ones; audit events go straight to the audit sink.
type IngestHandlers struct {
	bus       eventbus.EventPublisher
	auditSink audit.Sink
	validator *validator.Validate
	logger    *slog.Logger
}

func NewIngestHandlers(bus eventbus.EventPublisher, auditSink audit.Sink, validate *validator.Validate, logger *slog.Logger) *IngestHandlers {
	return &IngestHandlers{
		bus:       bus,
		auditSink: auditSink,
		validator: validate,
		logger:    logger.With("module", "ingest_api"),
	}
}

func (h *IngestHandlers) ExecutionStarted(c fiber.Ctx) error {
	var req IngestExecutionStartedRequest

	bound, err := h.bind(c, executionStartedSchema, &req)
	if !bound {
		return err
	}

	event := events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, req.WorkflowID),
		ExecutionID: req.ExecutionID,
		Mode:        models.ExecutionMode(req.Mode),
		RetryOf:     req.RetryOf,
		UserID:      req.UserID,
	}

	return h.publish(c, req.WorkflowID, event, event.ID)
}

func (h *IngestHandlers) NodeStarted(c fiber.Ctx) error {
	var req IngestNodeEventRequest

	bound, err := h.bind(c, nodeEventSchema, &req)
	if !bound {
		return err
	}

	event := events.NodeStarted{
		BaseEvent:   events.NewBaseEvent(events.NodeStartedEvent, req.WorkflowID),
		ExecutionID: req.ExecutionID,
		NodeName:    req.NodeName,
		NodeType:    req.NodeType,
	}

	return h.publish(c, req.WorkflowID, event, event.ID)
}

func (h *IngestHandlers) NodeFinished(c fiber.Ctx) error {
	var req IngestNodeEventRequest

	bound, err := h.bind(c, nodeEventSchema, &req)
	if !bound {
		return err
	}

	event := events.NodeFinished{
		BaseEvent:   events.NewBaseEvent(events.NodeFinishedEvent, req.WorkflowID),
		ExecutionID: req.ExecutionID,
		NodeName:    req.NodeName,
		NodeType:    req.NodeType,
	}

	return h.publish(c, req.WorkflowID, event, event.ID)
}

func (h *IngestHandlers) ExecutionFinished(c fiber.Ctx) error {
	var req IngestExecutionFinishedRequest

	bound, err := h.bind(c, executionFinishedSchema, &req)
	if !bound {
		return err
	}

	event := events.ExecutionFinished{
		BaseEvent:   events.NewBaseEvent(events.ExecutionFinishedEvent, req.WorkflowID),
		ExecutionID: req.ExecutionID,
		Workflow:    req.Workflow,
		Run:         req.Run,
		UserID:      req.UserID,
	}

	return h.publish(c, req.WorkflowID, event, event.ID)
}

func (h *IngestHandlers) ExecutionCrashed(c fiber.Ctx) error {
	var req IngestExecutionCrashedRequest

	bound, err := h.bind(c, executionCrashedSchema, &req)
	if !bound {
		return err
	}

	event := events.ExecutionCrashed{
		BaseEvent:   events.NewBaseEvent(events.ExecutionCrashedEvent, req.WorkflowID),
		ExecutionID: req.ExecutionID,
		Mode:        models.ExecutionMode(req.Mode),
		Workflow:    req.Workflow,
		Metadata:    req.Metadata,
	}

	return h.publish(c, req.WorkflowID, event, event.ID)
}

// AuditEvent accepts one audit-namespace event. Unknown event names are
// rejected so typos do not silently create new event streams downstream.
func (h *IngestHandlers) AuditEvent(c fiber.Ctx) error {
	var req IngestAuditEventRequest

	bound, err := h.bind(c, auditEventSchema, &req)
	if !bound {
		return err
	}

	if !IsKnownAuditName(req.EventName) {
		return badRequest(c, "unknown audit event name: "+req.EventName)
	}

	event := events.NewAuditEvent(events.AuditEventName(req.EventName), req.Payload, req.Actor.toIdentity())

	err = h.auditSink.SendAuditEvent(c.Context(), event)
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Failed to forward ingested audit event",
			"event_name", req.EventName, "error", err)

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// bind validates the raw body against the endpoint schema, decodes it into
// out, and applies struct validation. On failure it writes the error response
// and returns bound=false; the handler returns the accompanying error as-is.
func (h *IngestHandlers) bind(c fiber.Ctx, schema map[string]any, out any) (bool, error) {
	body := c.Body()

	err := validateBodySchema(body, schema)
	if err != nil {
		return false, unprocessable(c, err.Error())
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return false, badRequest(c, "invalid JSON format")
	}

	err = h.validator.Struct(out)
	if err != nil {
		return false, badRequest(c, err.Error())
	}

	return true, nil
}

func (h *IngestHandlers) publish(c fiber.Ctx, key string, event eventbus.Event, eventID string) error {
	err := h.bus.Publish(c.Context(), key, event)
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Failed to publish ingested event",
			"event_type", event.GetType(), "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(AcceptedResponse{EventID: eventID})
}
