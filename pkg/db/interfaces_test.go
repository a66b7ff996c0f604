package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func TestWorkerFilter_Matches(t *testing.T) {
	available := model.Worker{ID: "w1", Status: model.WorkerAvailable}
	sick := model.Worker{ID: "w2", Status: model.WorkerSickLeave}

	assert.True(t, WorkerFilter{}.Matches(available))
	assert.True(t, WorkerFilter{}.Matches(sick))

	filter := WorkerFilter{Status: model.WorkerAvailable}
	assert.True(t, filter.Matches(available))
	assert.False(t, filter.Matches(sick))
}
