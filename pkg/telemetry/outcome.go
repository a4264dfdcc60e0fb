// Package telemetry implements the execution outcome event pipeline: it
// classifies finished and crashed executions, attributes failures to nodes,
// and fans structured events out to the analytics and audit sinks.
package telemetry

import "github.com/techbluessolutions/n8n/pkg/models"

// ExecutionOutcome is the classified result of one workflow execution. It is
// built once per completion notification, never re-classified, and discarded
// after dispatch.
type ExecutionOutcome struct {
	ExecutionID            string
	WorkflowID             string
	Mode                   models.ExecutionMode
	Finished               bool
	Status                 models.ExecutionStatus
	ErrorMessage           string
	ErrorNodeName          string
	ErrorNodeType          string
	ErrorNodeID            *int
	StartedDestinationNode string
	Metadata               map[string]string
}

func (o *ExecutionOutcome) Success() bool {
	return o.Status == models.ExecutionStatusSuccess
}

func (o *ExecutionOutcome) Manual() bool {
	return o.Mode == models.ExecutionModeManual
}
