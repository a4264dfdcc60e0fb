package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/techbluessolutions/n8n/pkg/analytics"
	"github.com/techbluessolutions/n8n/pkg/audit"
	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/sharing"
)

// Analytics event names. External contract, same as the audit namespace:
// downstream dashboards key on the literal strings.
const (
	manualWorkflowExecFinished = "Manual workflow exec finished"
	manualNodeExecFinished     = "Manual node exec finished"
)

// ManualExecutionFacts carries the extra facts gathered for a manual
// execution: the structural graph, the sharing role, and either the targeted
// node's type (single-node run) or the webhook caller domain (full run).
type ManualExecutionFacts struct {
	Graph         *graph.NodeGraph
	Role          sharing.Role
	NodeType      string
	WebhookDomain string
}

// Dispatcher assembles final payloads and fans them out to the analytics and
// audit sinks. Every dispatch runs detached from the caller: the lifecycle
// hook that triggered it never waits on sink confirmation, and sink failures
// surface only through logs and external monitoring.
type Dispatcher struct {
	analytics analytics.Client
	audit     audit.Sink
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(analyticsClient analytics.Client, auditSink audit.Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		analytics: analyticsClient,
		audit:     auditSink,
		logger:    logger.With("module", "event_dispatcher"),
	}
}

// dispatch runs fn on a detached goroutine. The context is severed from the
// caller's cancellation so an already-returned lifecycle hook cannot abort an
// in-flight sink call.
func (d *Dispatcher) dispatch(ctx context.Context, name string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		err := fn(ctx)
		if err != nil {
			d.logger.ErrorContext(ctx, "Event dispatch failed", "event", name, "error", err)
		}
	}()
}

// Wait blocks until all in-flight dispatches finished. Used by shutdown and
// by tests; the pipeline itself never waits.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// DispatchIdentify reports instance traits to the analytics sink.
func (d *Dispatcher) DispatchIdentify(ctx context.Context, traits map[string]any) {
	d.dispatch(ctx, "identify", func(ctx context.Context) error {
		return d.analytics.Identify(ctx, traits)
	})
}

// DispatchAuditEvent forwards one event to the audit stream.
func (d *Dispatcher) DispatchAuditEvent(ctx context.Context, event events.AuditEvent) {
	d.dispatch(ctx, string(event.EventName), func(ctx context.Context) error {
		return d.audit.SendAuditEvent(ctx, event)
	})
}

// DispatchWorkflowEvent forwards one event to the workflow stream.
func (d *Dispatcher) DispatchWorkflowEvent(ctx context.Context, event events.AuditEvent) {
	d.dispatch(ctx, string(event.EventName), func(ctx context.Context) error {
		return d.audit.SendWorkflowEvent(ctx, event)
	})
}

// DispatchNodeEvent forwards one event to the node stream.
func (d *Dispatcher) DispatchNodeEvent(ctx context.Context, event events.AuditEvent) {
	d.dispatch(ctx, string(event.EventName), func(ctx context.Context) error {
		return d.audit.SendNodeEvent(ctx, event)
	})
}

// DispatchExecutionOutcome emits all events derived from one classified
// outcome: the workflow-level audit event, the analytics execution-tracking
// event, and for manual executions the matching manual-execution analytics
// event. manualFacts is nil for non-manual executions; userID is empty when
// no acting user is known.
func (d *Dispatcher) DispatchExecutionOutcome(ctx context.Context, outcome *ExecutionOutcome, actor *events.ActorIdentity, manualFacts *ManualExecutionFacts, userID string) {
	auditEvent := events.NewAuditEvent(workflowEventName(outcome), map[string]any{
		"executionId":   outcome.ExecutionID,
		"workflowId":    outcome.WorkflowID,
		"success":       outcome.Success(),
		"status":        string(outcome.Status),
		"errorMessage":  outcome.ErrorMessage,
		"errorNodeType": outcome.ErrorNodeType,
		"errorNodeName": outcome.ErrorNodeName,
	}, actor)

	d.DispatchWorkflowEvent(ctx, auditEvent)

	trackProperties := map[string]any{
		"execution_id":    outcome.ExecutionID,
		"workflow_id":     outcome.WorkflowID,
		"status":          string(outcome.Status),
		"mode":            string(outcome.Mode),
		"success":         outcome.Success(),
		"is_manual":       outcome.Manual(),
		"error_message":   outcome.ErrorMessage,
		"error_node_type": outcome.ErrorNodeType,
		"error_node_name": outcome.ErrorNodeName,
	}

	if outcome.ErrorNodeID != nil {
		trackProperties["error_node_id"] = *outcome.ErrorNodeID
	}

	if len(outcome.Metadata) > 0 {
		trackProperties["metadata"] = outcome.Metadata
	}

	d.dispatch(ctx, "execution tracking", func(ctx context.Context) error {
		return d.analytics.TrackExecution(ctx, trackProperties)
	})

	if manualFacts != nil {
		d.dispatchManualExecution(ctx, outcome, manualFacts, userID)
	}
}

func (d *Dispatcher) dispatchManualExecution(ctx context.Context, outcome *ExecutionOutcome, facts *ManualExecutionFacts, userID string) {
	properties := map[string]any{
		"workflow_id":   outcome.WorkflowID,
		"status":        string(outcome.Status),
		"error_message": outcome.ErrorMessage,
		"sharing_role":  string(facts.Role),
	}

	if userID != "" {
		properties["user_id"] = userID
	}

	eventName := manualWorkflowExecFinished

	if outcome.StartedDestinationNode != "" {
		eventName = manualNodeExecFinished
		properties["node_type"] = facts.NodeType

		nodeID, found := facts.Graph.NameIndices[outcome.StartedDestinationNode]
		if found {
			properties["node_id"] = nodeID
		}
	} else {
		properties["error_node_type"] = outcome.ErrorNodeType

		graphJSON, err := json.Marshal(facts.Graph)
		if err == nil {
			properties["node_graph_string"] = string(graphJSON)
		}

		if facts.WebhookDomain != "" {
			properties["webhook_domain"] = facts.WebhookDomain
		}
	}

	d.dispatch(ctx, eventName, func(ctx context.Context) error {
		return d.analytics.Track(ctx, eventName, properties)
	})
}

func workflowEventName(outcome *ExecutionOutcome) events.AuditEventName {
	switch outcome.Status {
	case models.ExecutionStatusSuccess:
		return events.WorkflowSuccess
	case models.ExecutionStatusCrashed:
		return events.WorkflowCrashed
	default:
		return events.WorkflowFailed
	}
}
