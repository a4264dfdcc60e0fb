package models

import "time"

// ExecutionMode describes how an execution was started.
type ExecutionMode string

const (
	ExecutionModeManual   ExecutionMode = "manual"
	ExecutionModeTrigger  ExecutionMode = "trigger"
	ExecutionModeWebhook  ExecutionMode = "webhook"
	ExecutionModeRetry    ExecutionMode = "retry"
	ExecutionModeInternal ExecutionMode = "internal"
	ExecutionModeCLI      ExecutionMode = "cli"
	ExecutionModeError    ExecutionMode = "error"
)

// ExecutionStatus is the classified final state of an execution.
type ExecutionStatus string

const (
	ExecutionStatusNew      ExecutionStatus = "new"
	ExecutionStatusRunning  ExecutionStatus = "running"
	ExecutionStatusSuccess  ExecutionStatus = "success"
	ExecutionStatusFailed   ExecutionStatus = "failed"
	ExecutionStatusCrashed  ExecutionStatus = "crashed"
	ExecutionStatusCanceled ExecutionStatus = "canceled"
	ExecutionStatusWaiting  ExecutionStatus = "waiting"
	ExecutionStatusUnknown  ExecutionStatus = "unknown"
)

// ExecutionError is the error carried by a failed run. NodeName and NodeType
// reference the node the error was raised from, when the engine attached one.
type ExecutionError struct {
	Message  string `json:"message"`
	NodeName string `json:"node_name,omitempty"`
	NodeType string `json:"node_type,omitempty"`
}

// MetadataEntry is a single custom metadata pair recorded during a run.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RunItem is one output item produced by a node, as a JSON body.
type RunItem struct {
	JSON map[string]any `json:"json"`
}

// TaskRunData holds the per-slot output items of a single node run. Main is
// indexed by output slot, then by item.
type TaskRunData struct {
	Main [][]*RunItem `json:"main"`
}

// TaskRun is one recorded run of a node within an execution.
type TaskRun struct {
	StartTime time.Time   `json:"start_time"`
	Data      TaskRunData `json:"data"`
}

// StartData captures how a manual execution was started. DestinationNode is
// set when the run targeted a single node.
type StartData struct {
	DestinationNode string `json:"destination_node,omitempty"`
}

// ResultData is the per-execution run trace.
type ResultData struct {
	Error            *ExecutionError       `json:"error,omitempty"`
	LastNodeExecuted string                `json:"last_node_executed,omitempty"`
	RunData          map[string][]*TaskRun `json:"run_data,omitempty"`
	Metadata         []MetadataEntry       `json:"metadata,omitempty"`
}

// RunData wraps the result data together with start/wait information.
type RunData struct {
	StartData  *StartData `json:"start_data,omitempty"`
	ResultData ResultData `json:"result_data"`
	WaitTill   *time.Time `json:"wait_till,omitempty"`
}

// RunResult is the raw execution result handed to the pipeline when an
// execution finishes or crashes.
type RunResult struct {
	Finished  bool            `json:"finished"`
	Mode      ExecutionMode   `json:"mode"`
	Status    ExecutionStatus `json:"status,omitempty"`
	Data      RunData         `json:"data"`
	StartedAt time.Time       `json:"started_at"`
	StoppedAt *time.Time      `json:"stopped_at,omitempty"`
}

// DetermineRunStatus derives an execution status from the run trace alone. It
// is deterministic over the run-result shape and never returns an error; the
// cancellation override is applied by the caller, not here.
func DetermineRunStatus(run *RunResult) ExecutionStatus {
	if run == nil {
		return ExecutionStatusUnknown
	}

	if run.Status == ExecutionStatusCrashed {
		return ExecutionStatusCrashed
	}

	if run.Data.WaitTill != nil {
		return ExecutionStatusWaiting
	}

	if run.Data.ResultData.Error != nil {
		return ExecutionStatusFailed
	}

	if run.Finished {
		return ExecutionStatusSuccess
	}

	if run.Data.ResultData.LastNodeExecuted != "" {
		return ExecutionStatusFailed
	}

	return ExecutionStatusUnknown
}

// ReduceMetadata flattens recorded metadata entries into a map. Entries with
// an empty key are skipped; later entries win on duplicate keys.
func ReduceMetadata(entries []MetadataEntry) map[string]string {
	if len(entries) == 0 {
		return nil
	}

	reduced := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.Key == "" {
			continue
		}

		reduced[entry.Key] = entry.Value
	}

	if len(reduced) == 0 {
		return nil
	}

	return reduced
}
