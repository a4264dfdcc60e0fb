package telemetry

import "github.com/techbluessolutions/n8n/pkg/models"

type errorAttribution struct {
	Message  string
	NodeName string
	NodeType string
}

// attributeError locates the node that caused a failure. The error's attached
// node reference is the initial guess; when the run trace names a last
// executed node that exists in the workflow, that node is authoritative and
// overrides both name and type. A workflow lookup miss leaves the prior guess
// in place.
func attributeError(run *models.RunResult, workflow *models.Workflow) errorAttribution {
	var attribution errorAttribution

	if run == nil {
		return attribution
	}

	execErr := run.Data.ResultData.Error
	if execErr == nil {
		return attribution
	}

	attribution.Message = execErr.Message
	attribution.NodeName = execErr.NodeName
	attribution.NodeType = execErr.NodeType

	lastNode := run.Data.ResultData.LastNodeExecuted
	if lastNode != "" {
		node, found := workflow.NodeByName(lastNode)
		if found {
			attribution.NodeName = node.Name
			attribution.NodeType = node.Type
		}
	}

	return attribution
}
