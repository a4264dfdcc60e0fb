package models

// Built-in node types referenced by the pipeline.
const (
	NodeTypeWebhook         = "n8n-nodes-base.webhook"
	NodeTypeFormTrigger     = "n8n-nodes-base.formTrigger"
	NodeTypeManualTrigger   = "n8n-nodes-base.manualTrigger"
	NodeTypeScheduleTrigger = "n8n-nodes-base.scheduleTrigger"
	NodeTypeHTTPRequest     = "n8n-nodes-base.httpRequest"
	NodeTypeSet             = "n8n-nodes-base.set"
)

// WorkflowNode represents a node instance in a workflow snapshot.
type WorkflowNode struct {
	ID          string         `json:"id"`
	Name        string         `json:"name" validate:"required,min=1"`
	Type        string         `json:"type" validate:"required"`
	TypeVersion int            `json:"type_version,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
	PositionX   int            `json:"position_x"`
	PositionY   int            `json:"position_y"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}
