// Package events defines the lifecycle notifications consumed from the
// workflow engine and the audit events emitted to the audit sink.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/techbluessolutions/n8n/pkg/models"
)

type EventType string

// Bus topics.
const LifecycleTopic = "n8n.lifecycle"
const AuditTopic = "n8n.audit"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent  EventType = "execution.started"
	NodeStartedEvent       EventType = "node.started"
	NodeFinishedEvent      EventType = "node.finished"
	ExecutionFinishedEvent EventType = "execution.finished"
	ExecutionCrashedEvent  EventType = "execution.crashed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}

// ExecutionStarted signals that an execution began.
type ExecutionStarted struct {
	BaseEvent

	ExecutionID string               `json:"execution_id"`
	Mode        models.ExecutionMode `json:"mode"`
	RetryOf     string               `json:"retry_of,omitempty"`
	UserID      string               `json:"user_id,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// NodeStarted signals that a node began executing within a run.
type NodeStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeName    string `json:"node_name"`
	NodeType    string `json:"node_type,omitempty"`
}

func (e NodeStarted) GetType() EventType {
	return NodeStartedEvent
}

// NodeFinished signals that a node finished executing within a run.
type NodeFinished struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeName    string `json:"node_name"`
	NodeType    string `json:"node_type,omitempty"`
}

func (e NodeFinished) GetType() EventType {
	return NodeFinishedEvent
}

// ExecutionFinished carries the raw run result of a finished execution
// together with the workflow snapshot it ran against.
type ExecutionFinished struct {
	BaseEvent

	ExecutionID string            `json:"execution_id"`
	Workflow    *models.Workflow  `json:"workflow,omitempty"`
	Run         *models.RunResult `json:"run,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
}

func (e ExecutionFinished) GetType() EventType {
	return ExecutionFinishedEvent
}

// ExecutionCrashed signals that an execution died without producing a full
// run result (worker crash, OOM, forced shutdown).
type ExecutionCrashed struct {
	BaseEvent

	ExecutionID string                 `json:"execution_id"`
	Mode        models.ExecutionMode   `json:"mode"`
	Workflow    *models.Workflow       `json:"workflow,omitempty"`
	Metadata    []models.MetadataEntry `json:"execution_metadata,omitempty"`
}

func (e ExecutionCrashed) GetType() EventType {
	return ExecutionCrashedEvent
}
