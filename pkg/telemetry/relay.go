package telemetry

import (
	"context"
	"log/slog"

	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
	"github.com/techbluessolutions/n8n/pkg/sharing"
)

// EventRelay is the pipeline entry point. Lifecycle notifications from the
// workflow engine come in; anonymized analytics events and audit events go
// out, best-effort, without blocking the engine.
type EventRelay struct {
	dispatcher *Dispatcher
	generator  graph.Generator
	nodeTypes  *registry.NodeTypes
	roles      *sharing.Resolver
	deduper    Deduper
	logger     *slog.Logger
}

func NewEventRelay(
	dispatcher *Dispatcher,
	generator graph.Generator,
	nodeTypes *registry.NodeTypes,
	roles *sharing.Resolver,
	deduper Deduper,
	logger *slog.Logger,
) *EventRelay {
	return &EventRelay{
		dispatcher: dispatcher,
		generator:  generator,
		nodeTypes:  nodeTypes,
		roles:      roles,
		deduper:    deduper,
		logger:     logger.With("module", "event_relay"),
	}
}

// Identify reports instance traits to the analytics sink once per boot.
func (r *EventRelay) Identify(ctx context.Context, traits map[string]any) {
	r.dispatcher.DispatchIdentify(ctx, traits)
}

func (r *EventRelay) ExecutionStarted(ctx context.Context, event *events.ExecutionStarted) {
	r.dispatcher.DispatchWorkflowEvent(ctx, events.NewAuditEvent(events.WorkflowStarted, map[string]any{
		"executionId": event.ExecutionID,
		"workflowId":  event.WorkflowID,
		"mode":        string(event.Mode),
		"retryOf":     event.RetryOf,
	}, actorFromUserID(event.UserID)))
}

func (r *EventRelay) NodeStarted(ctx context.Context, event *events.NodeStarted) {
	r.dispatcher.DispatchNodeEvent(ctx, events.NewAuditEvent(events.NodeStartedName, map[string]any{
		"executionId": event.ExecutionID,
		"workflowId":  event.WorkflowID,
		"nodeName":    event.NodeName,
		"nodeType":    event.NodeType,
	}, nil))
}

func (r *EventRelay) NodeFinished(ctx context.Context, event *events.NodeFinished) {
	r.dispatcher.DispatchNodeEvent(ctx, events.NewAuditEvent(events.NodeFinishedName, map[string]any{
		"executionId": event.ExecutionID,
		"workflowId":  event.WorkflowID,
		"nodeName":    event.NodeName,
		"nodeType":    event.NodeType,
	}, nil))
}

// ExecutionFinished runs the outcome pipeline for one finished execution:
// classify the final status, attribute failures, gather manual-execution
// facts, and dispatch to both sinks. The returned error is non-nil only when
// graph generation failed; that aborts this dispatch and nothing else.
func (r *EventRelay) ExecutionFinished(ctx context.Context, event *events.ExecutionFinished) error {
	if r.deduper != nil {
		seen, err := r.deduper.AlreadySeen(ctx, event.ExecutionID)
		if err != nil {
			r.logger.ErrorContext(ctx, "Outcome dedup check failed, processing anyway",
				"execution_id", event.ExecutionID, "error", err)
		} else if seen {
			r.logger.DebugContext(ctx, "Duplicate completion notification skipped",
				"execution_id", event.ExecutionID)

			return nil
		}
	}

	run := event.Run

	outcome := &ExecutionOutcome{
		ExecutionID: event.ExecutionID,
		WorkflowID:  event.WorkflowID,
		Status:      ClassifyStatus(run),
	}

	if run != nil {
		outcome.Mode = run.Mode
		outcome.Finished = run.Finished
		outcome.Metadata = models.ReduceMetadata(run.Data.ResultData.Metadata)
	}

	if !outcome.Success() {
		attribution := attributeError(run, event.Workflow)
		outcome.ErrorMessage = attribution.Message
		outcome.ErrorNodeName = attribution.NodeName
		outcome.ErrorNodeType = attribution.NodeType
	}

	cache := newGraphCache(r.generator, r.nodeTypes, event.Workflow)

	if !outcome.Success() && outcome.ErrorNodeName != "" && event.Workflow != nil {
		nodeGraph, err := cache.Get(ctx)
		if err != nil {
			return err
		}

		nodeID, found := nodeGraph.NameIndices[outcome.ErrorNodeName]
		if found {
			outcome.ErrorNodeID = &nodeID
		}
	}

	var manualFacts *ManualExecutionFacts

	if outcome.Manual() && event.Workflow != nil {
		nodeGraph, err := cache.Get(ctx)
		if err != nil {
			return err
		}

		manualFacts = &ManualExecutionFacts{
			Graph: nodeGraph,
			Role:  r.roles.Resolve(ctx, event.UserID, event.WorkflowID),
		}

		destination := startedDestinationNode(run)
		if destination != "" {
			outcome.StartedDestinationNode = destination

			node, found := event.Workflow.NodeByName(destination)
			if found {
				manualFacts.NodeType = node.Type
			}
		} else {
			manualFacts.WebhookDomain = extractWebhookDomain(nodeGraph, run.Data.ResultData.RunData)
		}
	}

	r.dispatcher.DispatchExecutionOutcome(ctx, outcome, actorFromUserID(event.UserID), manualFacts, event.UserID)

	return nil
}

// ExecutionCrashed reports an execution that died without a run result.
func (r *EventRelay) ExecutionCrashed(ctx context.Context, event *events.ExecutionCrashed) {
	outcome := &ExecutionOutcome{
		ExecutionID: event.ExecutionID,
		WorkflowID:  event.WorkflowID,
		Mode:        event.Mode,
		Status:      models.ExecutionStatusCrashed,
		Metadata:    models.ReduceMetadata(event.Metadata),
	}

	r.dispatcher.DispatchExecutionOutcome(ctx, outcome, nil, nil, "")
}

// Flat audit forwarders. Each reshapes its inputs into one event on the
// pinned audit namespace; no classification, no enrichment.

func (r *EventRelay) WorkflowCreated(ctx context.Context, actor *events.ActorIdentity, workflowID, workflowName string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditWorkflowCreated, map[string]any{
		"workflowId":   workflowID,
		"workflowName": workflowName,
	}, actor))
}

func (r *EventRelay) WorkflowUpdated(ctx context.Context, actor *events.ActorIdentity, workflowID, workflowName string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditWorkflowUpdated, map[string]any{
		"workflowId":   workflowID,
		"workflowName": workflowName,
	}, actor))
}

func (r *EventRelay) WorkflowDeleted(ctx context.Context, actor *events.ActorIdentity, workflowID string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditWorkflowDeleted, map[string]any{
		"workflowId": workflowID,
	}, actor))
}

func (r *EventRelay) UserLoginSuccess(ctx context.Context, actor *events.ActorIdentity, authenticationMethod string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditUserLoginSuccess, map[string]any{
		"authenticationMethod": authenticationMethod,
	}, actor))
}

func (r *EventRelay) UserLoginFailed(ctx context.Context, userEmail, authenticationMethod, reason string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditUserLoginFailed, map[string]any{
		"userEmail":            userEmail,
		"authenticationMethod": authenticationMethod,
		"reason":               reason,
	}, nil))
}

func (r *EventRelay) CredentialsCreated(ctx context.Context, actor *events.ActorIdentity, credentialID, credentialType string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditCredentialsCreated, map[string]any{
		"credentialId":   credentialID,
		"credentialType": credentialType,
	}, actor))
}

func (r *EventRelay) CredentialsShared(ctx context.Context, actor *events.ActorIdentity, credentialID, credentialType string, shareeIDs []string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditCredentialsShared, map[string]any{
		"credentialId":        credentialID,
		"credentialType":      credentialType,
		"userIdsShareesAdded": shareeIDs,
	}, actor))
}

func (r *EventRelay) PackageInstalled(ctx context.Context, actor *events.ActorIdentity, packageName, packageVersion string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditPackageInstalled, map[string]any{
		"packageName":    packageName,
		"packageVersion": packageVersion,
	}, actor))
}

func (r *EventRelay) PackageUpdated(ctx context.Context, actor *events.ActorIdentity, packageName, oldVersion, newVersion string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditPackageUpdated, map[string]any{
		"packageName":       packageName,
		"packageVersionOld": oldVersion,
		"packageVersionNew": newVersion,
	}, actor))
}

func (r *EventRelay) PackageDeleted(ctx context.Context, actor *events.ActorIdentity, packageName, packageVersion string) {
	r.dispatcher.DispatchAuditEvent(ctx, events.NewAuditEvent(events.AuditPackageDeleted, map[string]any{
		"packageName":    packageName,
		"packageVersion": packageVersion,
	}, actor))
}

func startedDestinationNode(run *models.RunResult) string {
	if run == nil || run.Data.StartData == nil {
		return ""
	}

	return run.Data.StartData.DestinationNode
}

func actorFromUserID(userID string) *events.ActorIdentity {
	if userID == "" {
		return nil
	}

	return &events.ActorIdentity{UserID: userID}
}
