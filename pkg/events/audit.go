package events

// AuditEventName is a dotted hierarchical event name. The names below are a
// stable external contract: downstream alerting and dashboards key on them,
// so renames must be versioned deliberately.
type AuditEventName string

// Workflow and node domain events.
const (
	WorkflowStarted AuditEventName = "n8n.workflow.started"
	WorkflowSuccess AuditEventName = "n8n.workflow.success"
	WorkflowFailed  AuditEventName = "n8n.workflow.failed"
	WorkflowCrashed AuditEventName = "n8n.workflow.crashed"

	NodeStartedName  AuditEventName = "n8n.node.started"
	NodeFinishedName AuditEventName = "n8n.node.finished"
)

// Audit namespace.
const (
	AuditWorkflowCreated AuditEventName = "n8n.audit.workflow.created"
	AuditWorkflowUpdated AuditEventName = "n8n.audit.workflow.updated"
	AuditWorkflowDeleted AuditEventName = "n8n.audit.workflow.deleted"

	AuditUserLoginSuccess AuditEventName = "n8n.audit.user.login.success"
	AuditUserLoginFailed  AuditEventName = "n8n.audit.user.login.failed"

	AuditCredentialsCreated AuditEventName = "n8n.audit.user.credentials.created"
	AuditCredentialsShared  AuditEventName = "n8n.audit.user.credentials.shared"

	AuditPackageInstalled AuditEventName = "n8n.audit.package.installed"
	AuditPackageUpdated   AuditEventName = "n8n.audit.package.updated"
	AuditPackageDeleted   AuditEventName = "n8n.audit.package.deleted"
)

// ActorIdentity identifies the acting user on an audit event. Fields prefixed
// with an underscore are redacted by downstream log-streaming destinations
// that opt out of PII.
type ActorIdentity struct {
	UserID     string `json:"userId"`
	Email      string `json:"_email,omitempty"`
	FirstName  string `json:"_firstName,omitempty"`
	LastName   string `json:"_lastName,omitempty"`
	GlobalRole string `json:"globalRole,omitempty"`
}

// AuditEvent is a single structured event for the audit sink.
type AuditEvent struct {
	EventName AuditEventName `json:"eventName"`
	Payload   map[string]any `json:"payload"`
}

// NewAuditEvent builds an audit event, merging the actor identity block into
// the payload when an acting user is known.
func NewAuditEvent(name AuditEventName, payload map[string]any, actor *ActorIdentity) AuditEvent {
	if payload == nil {
		payload = make(map[string]any)
	}

	if actor != nil && actor.UserID != "" {
		payload["userId"] = actor.UserID
		payload["_email"] = actor.Email
		payload["_firstName"] = actor.FirstName
		payload["_lastName"] = actor.LastName

		if actor.GlobalRole != "" {
			payload["globalRole"] = actor.GlobalRole
		}
	}

	return AuditEvent{EventName: name, Payload: payload}
}
