package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techbluessolutions/n8n/pkg/models"
)

func failedRun(err *models.ExecutionError, lastNode string) *models.RunResult {
	return &models.RunResult{
		Data: models.RunData{
			ResultData: models.ResultData{
				Error:            err,
				LastNodeExecuted: lastNode,
			},
		},
	}
}

func TestAttributeErrorUsesErrorNodeReference(t *testing.T) {
	run := failedRun(&models.ExecutionError{
		Message:  "request timed out",
		NodeName: "Fetch Invoice",
		NodeType: models.NodeTypeHTTPRequest,
	}, "")

	attribution := attributeError(run, &models.Workflow{})

	assert.Equal(t, "request timed out", attribution.Message)
	assert.Equal(t, "Fetch Invoice", attribution.NodeName)
	assert.Equal(t, models.NodeTypeHTTPRequest, attribution.NodeType)
}

func TestAttributeErrorLastExecutedNodeIsAuthoritative(t *testing.T) {
	workflow := &models.Workflow{
		Nodes: []*models.WorkflowNode{
			{Name: "Fetch Invoice", Type: models.NodeTypeHTTPRequest},
			{Name: "Set Totals", Type: models.NodeTypeSet},
		},
	}

	run := failedRun(&models.ExecutionError{
		Message:  "missing field",
		NodeName: "Fetch Invoice",
		NodeType: models.NodeTypeHTTPRequest,
	}, "Set Totals")

	attribution := attributeError(run, workflow)

	assert.Equal(t, "missing field", attribution.Message)
	assert.Equal(t, "Set Totals", attribution.NodeName)
	assert.Equal(t, models.NodeTypeSet, attribution.NodeType)
}

func TestAttributeErrorLookupMissKeepsInitialGuess(t *testing.T) {
	workflow := &models.Workflow{
		Nodes: []*models.WorkflowNode{
			{Name: "Fetch Invoice", Type: models.NodeTypeHTTPRequest},
		},
	}

	run := failedRun(&models.ExecutionError{
		Message:  "missing field",
		NodeName: "Fetch Invoice",
		NodeType: models.NodeTypeHTTPRequest,
	}, "Deleted Node")

	attribution := attributeError(run, workflow)

	assert.Equal(t, "Fetch Invoice", attribution.NodeName)
	assert.Equal(t, models.NodeTypeHTTPRequest, attribution.NodeType)
}

func TestAttributeErrorNilWorkflow(t *testing.T) {
	run := failedRun(&models.ExecutionError{Message: "boom", NodeName: "A"}, "B")

	attribution := attributeError(run, nil)

	assert.Equal(t, "A", attribution.NodeName)
}

func TestAttributeErrorNoError(t *testing.T) {
	assert.Equal(t, errorAttribution{}, attributeError(&models.RunResult{}, nil))
	assert.Equal(t, errorAttribution{}, attributeError(nil, nil))
}
