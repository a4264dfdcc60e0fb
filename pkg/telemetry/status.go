package telemetry

import (
	"strings"

	"github.com/techbluessolutions/n8n/pkg/models"
)

// Substring the engine puts into the error message when a run is aborted by
// the user. Matched case-sensitively.
const canceledErrorMarker = "canceled"

// ClassifyStatus derives the final status of a finished or crashed execution.
// A missing run result classifies as unknown. An error message containing the
// cancellation marker forces canceled regardless of every other signal;
// otherwise the run trace decides via models.DetermineRunStatus. The function
// is pure: callers must use the returned status, the run result is never
// modified.
func ClassifyStatus(run *models.RunResult) models.ExecutionStatus {
	if run == nil {
		return models.ExecutionStatusUnknown
	}

	execErr := run.Data.ResultData.Error
	if execErr != nil && strings.Contains(execErr.Message, canceledErrorMarker) {
		return models.ExecutionStatusCanceled
	}

	return models.DetermineRunStatus(run)
}
