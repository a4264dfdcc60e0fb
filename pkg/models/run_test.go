package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetermineRunStatus_NoResult(t *testing.T) {
	assert.Equal(t, ExecutionStatusUnknown, DetermineRunStatus(nil))
}

func TestDetermineRunStatus_Crashed(t *testing.T) {
	run := &RunResult{
		Status: ExecutionStatusCrashed,
		Data: RunData{
			ResultData: ResultData{Error: &ExecutionError{Message: "worker died"}},
		},
	}

	assert.Equal(t, ExecutionStatusCrashed, DetermineRunStatus(run))
}

func TestDetermineRunStatus_Waiting(t *testing.T) {
	waitTill := time.Now().Add(time.Hour)
	run := &RunResult{
		Data: RunData{WaitTill: &waitTill},
	}

	assert.Equal(t, ExecutionStatusWaiting, DetermineRunStatus(run))
}

func TestDetermineRunStatus_Failed(t *testing.T) {
	run := &RunResult{
		Finished: true,
		Data: RunData{
			ResultData: ResultData{Error: &ExecutionError{Message: "boom"}},
		},
	}

	assert.Equal(t, ExecutionStatusFailed, DetermineRunStatus(run))
}

func TestDetermineRunStatus_FailedWithoutErrorObject(t *testing.T) {
	// An unfinished run that still names a last executed node stopped midway.
	run := &RunResult{
		Finished: false,
		Data: RunData{
			ResultData: ResultData{LastNodeExecuted: "HTTP Request"},
		},
	}

	assert.Equal(t, ExecutionStatusFailed, DetermineRunStatus(run))
}

func TestDetermineRunStatus_Success(t *testing.T) {
	run := &RunResult{Finished: true}

	assert.Equal(t, ExecutionStatusSuccess, DetermineRunStatus(run))
}

func TestDetermineRunStatus_Unknown(t *testing.T) {
	run := &RunResult{}

	assert.Equal(t, ExecutionStatusUnknown, DetermineRunStatus(run))
}

func TestReduceMetadata(t *testing.T) {
	entries := []MetadataEntry{
		{Key: "customer", Value: "acme"},
		{Key: "", Value: "dropped"},
		{Key: "region", Value: "eu"},
		{Key: "customer", Value: "acme-2"},
	}

	reduced := ReduceMetadata(entries)

	assert.Equal(t, map[string]string{"customer": "acme-2", "region": "eu"}, reduced)
}

func TestReduceMetadata_Empty(t *testing.T) {
	assert.Nil(t, ReduceMetadata(nil))
	assert.Nil(t, ReduceMetadata([]MetadataEntry{{Key: "", Value: "x"}}))
}

func TestWorkflowNodeByName(t *testing.T) {
	workflow := &Workflow{
		ID:   "wf-1",
		Name: "Test Workflow",
		Nodes: []*WorkflowNode{
			{Name: "Webhook", Type: NodeTypeWebhook},
			{Name: "Set", Type: NodeTypeSet},
		},
	}

	node, found := workflow.NodeByName("Set")
	assert.True(t, found)
	assert.Equal(t, NodeTypeSet, node.Type)

	_, found = workflow.NodeByName("Missing")
	assert.False(t, found)
}
