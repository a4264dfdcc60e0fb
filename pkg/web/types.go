// Package web provides the HTTP ingest surface of the telemetry relay. It
// accepts lifecycle notifications from engine components that are not wired
// to the event bus directly and republishes them onto the bus.
package web

import (
	"github.com/techbluessolutions/n8n/pkg/events"
	"github.com/techbluessolutions/n8n/pkg/models"
)

// IngestExecutionStartedRequest is the body of POST /v1/events/execution-started.
type IngestExecutionStartedRequest struct {
	ExecutionID string `json:"execution_id" validate:"required"`
	WorkflowID  string `json:"workflow_id"  validate:"required"`
	Mode        string `json:"mode"         validate:"required"`
	RetryOf     string `json:"retry_of,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// IngestNodeEventRequest is the body of the node-started and node-finished
// endpoints.
type IngestNodeEventRequest struct {
	ExecutionID string `json:"execution_id" validate:"required"`
	WorkflowID  string `json:"workflow_id"  validate:"required"`
	NodeName    string `json:"node_name"    validate:"required"`
	NodeType    string `json:"node_type,omitempty"`
}

// IngestExecutionFinishedRequest is the body of POST /v1/events/execution-finished.
// The workflow snapshot and run result are passed through untouched; the
// pipeline consumer performs all classification.
type IngestExecutionFinishedRequest struct {
	ExecutionID string            `json:"execution_id" validate:"required"`
	WorkflowID  string            `json:"workflow_id"  validate:"required"`
	Workflow    *models.Workflow  `json:"workflow,omitempty"`
	Run         *models.RunResult `json:"run,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
}

// IngestExecutionCrashedRequest is the body of POST /v1/events/execution-crashed.
type IngestExecutionCrashedRequest struct {
	ExecutionID string                 `json:"execution_id" validate:"required"`
	WorkflowID  string                 `json:"workflow_id"  validate:"required"`
	Mode        string                 `json:"mode"         validate:"required"`
	Workflow    *models.Workflow       `json:"workflow,omitempty"`
	Metadata    []models.MetadataEntry `json:"execution_metadata,omitempty"`
}

// IngestAuditEventRequest is the body of POST /v1/audit. EventName must be
// one of the pinned audit names; unknown names are rejected so typos do not
// silently create new event streams downstream.
type IngestAuditEventRequest struct {
	EventName string         `json:"event_name" validate:"required"`
	Payload   map[string]any `json:"payload"`
	Actor     *ActorRequest  `json:"actor,omitempty"`
}

// ActorRequest is the acting-user block of an ingested audit event.
type ActorRequest struct {
	UserID     string `json:"user_id"   validate:"required"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	GlobalRole string `json:"global_role,omitempty"`
}

// AcceptedResponse acknowledges an ingested event. The event id is the bus
// message key, usable for tracing the event through the pipeline logs.
type AcceptedResponse struct {
	EventID string `json:"event_id"`
}

func (r *ActorRequest) toIdentity() *events.ActorIdentity {
	if r == nil {
		return nil
	}

	return &events.ActorIdentity{
		UserID:     r.UserID,
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		GlobalRole: r.GlobalRole,
	}
}

var knownAuditNames = map[events.AuditEventName]struct{}{
	events.AuditWorkflowCreated:    {},
	events.AuditWorkflowUpdated:    {},
	events.AuditWorkflowDeleted:    {},
	events.AuditUserLoginSuccess:   {},
	events.AuditUserLoginFailed:    {},
	events.AuditCredentialsCreated: {},
	events.AuditCredentialsShared:  {},
	events.AuditPackageInstalled:   {},
	events.AuditPackageUpdated:     {},
	events.AuditPackageDeleted:     {},
}

// IsKnownAuditName reports whether name is part of the pinned audit contract.
func IsKnownAuditName(name string) bool {
	_, known := knownAuditNames[events.AuditEventName(name)]

	return known
}
