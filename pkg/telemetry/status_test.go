package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/techbluessolutions/n8n/pkg/models"
)

func TestClassifyStatusNilRun(t *testing.T) {
	assert.Equal(t, models.ExecutionStatusUnknown, ClassifyStatus(nil))
}

func TestClassifyStatusCanceledMarkerOverridesEverything(t *testing.T) {
	run := &models.RunResult{
		Finished: true,
		Data: models.RunData{
			ResultData: models.ResultData{
				Error: &models.ExecutionError{Message: "execution was canceled by user"},
			},
		},
	}

	assert.Equal(t, models.ExecutionStatusCanceled, ClassifyStatus(run))
}

func TestClassifyStatusCanceledMarkerBeatsWaiting(t *testing.T) {
	waitTill := time.Now().Add(time.Hour)
	run := &models.RunResult{
		Data: models.RunData{
			WaitTill: &waitTill,
			ResultData: models.ResultData{
				Error: &models.ExecutionError{Message: "canceled"},
			},
		},
	}

	assert.Equal(t, models.ExecutionStatusCanceled, ClassifyStatus(run))
}

func TestClassifyStatusDelegatesToRunTrace(t *testing.T) {
	scenarios := []struct {
		name     string
		run      *models.RunResult
		expected models.ExecutionStatus
	}{
		{
			name:     "finished without error is success",
			run:      &models.RunResult{Finished: true},
			expected: models.ExecutionStatusSuccess,
		},
		{
			name: "error without cancellation marker is failed",
			run: &models.RunResult{
				Data: models.RunData{
					ResultData: models.ResultData{
						Error: &models.ExecutionError{Message: "connection refused"},
					},
				},
			},
			expected: models.ExecutionStatusFailed,
		},
		{
			name: "unfinished with last executed node is failed",
			run: &models.RunResult{
				Data: models.RunData{
					ResultData: models.ResultData{LastNodeExecuted: "HTTP Request"},
				},
			},
			expected: models.ExecutionStatusFailed,
		},
		{
			name:     "no signal at all is unknown",
			run:      &models.RunResult{},
			expected: models.ExecutionStatusUnknown,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			assert.Equal(t, scenario.expected, ClassifyStatus(scenario.run))
		})
	}
}

func TestClassifyStatusDoesNotMutateRun(t *testing.T) {
	run := &models.RunResult{
		Status: models.ExecutionStatusRunning,
		Data: models.RunData{
			ResultData: models.ResultData{
				Error: &models.ExecutionError{Message: "canceled"},
			},
		},
	}

	ClassifyStatus(run)

	assert.Equal(t, models.ExecutionStatusRunning, run.Status)
}
