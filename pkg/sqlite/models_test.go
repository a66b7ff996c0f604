package sqlite

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func TestContractConversion(t *testing.T) {
	contract := model.Contract{
		ID:             "c-1",
		Number:         "CT-000001",
		WorkerID:       "w-1",
		ClientID:       "org-1",
		Position:       "driver",
		Interval:       model.IntervalFromDays(model.Date(2026, 3, 2), 14),
		Status:         model.ContractPending,
		HourlyRate:     decimal.RequireFromString("17.25"),
		MaxWeeklyHours: 40,
		ShiftType:      model.ShiftRotating,
		CreatedBy:      "hr-1",
	}

	row := fromContract(contract)
	assert.True(t, row.Generated)
	assert.Equal(t, "pending", row.Status)

	assert.Equal(t, contract, toContract(row))
}

func TestShiftRecordConversion(t *testing.T) {
	record := model.ShiftRecord{
		ID:              "s-1",
		WorkerID:        "w-1",
		ClientID:        "org-1",
		ContractID:      "c-1",
		Date:            model.Date(2026, 3, 2),
		Start:           model.NewTimeOfDay(22),
		End:             model.NewTimeOfDay(6),
		CrossesMidnight: true,
		Status:          model.ShiftWorking,
		WeeklyHours:     40,
		CreatedBy:       "hr-1",
	}

	row := fromShiftRecord(record)
	assert.Equal(t, "22:00", row.StartTime)
	assert.Equal(t, "06:00", row.EndTime)

	back, err := toShiftRecord(row)
	require.NoError(t, err)
	assert.Equal(t, record, back)

	row.StartTime = "late"
	_, err = toShiftRecord(row)
	assert.Error(t, err)
}

func TestWorkerConversion(t *testing.T) {
	var availability model.WeeklyAvailability
	availability[1] = model.DayAvailability{Available: true, StartHour: 8, EndHour: 16}

	w := toWorker(Worker{
		ID:           "w-1",
		FirstName:    "Ada",
		LastName:     "Byron",
		Skills:       []string{"driver"},
		HourlyRate:   decimal.RequireFromString("15"),
		Status:       "sick_leave",
		StatusReason: "Flu",
		Availability: availability,
	})

	assert.Equal(t, model.WorkerSickLeave, w.Status)
	assert.Equal(t, "Ada Byron", w.DisplayName())
	assert.True(t, w.Availability[1].Covers(8))
}
