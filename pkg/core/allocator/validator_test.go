package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func TestValidateContracts_OverlappingActive(t *testing.T) {
	contracts := []model.Contract{
		{ID: "a", Number: "CT-1", WorkerID: "w1", Status: model.ContractActive, Interval: model.IntervalFromDays(model.Date(2026, 1, 1), 10)},
		{ID: "b", Number: "CT-2", WorkerID: "w1", Status: model.ContractActive, Interval: model.IntervalFromDays(model.Date(2026, 1, 10), 10)},
	}

	errs := ValidateContracts(contracts)

	require.Len(t, errs, 1)
	assert.Equal(t, RuleNoOverlap, errs[0].Rule)
	assert.Equal(t, "w1", errs[0].WorkerID)
	assert.Contains(t, errs[0].Description, "CT-1")
	assert.Contains(t, errs[0].Error(), RuleNoOverlap)
}

func TestValidateContracts_PendingOverlapIsAllowed(t *testing.T) {
	contracts := []model.Contract{
		{ID: "a", Number: "CT-1", WorkerID: "w1", Status: model.ContractActive, Interval: model.IntervalFromDays(model.Date(2026, 1, 1), 10)},
		{ID: "b", Number: "CT-2", WorkerID: "w1", Status: model.ContractPending, Interval: model.IntervalFromDays(model.Date(2026, 1, 5), 10)},
		{ID: "c", Number: "CT-3", WorkerID: "w2", Status: model.ContractActive, Interval: model.IntervalFromDays(model.Date(2026, 1, 5), 10)},
	}

	assert.Empty(t, ValidateContracts(contracts))
}

func TestValidateContracts_DuplicateNumberAndReversedInterval(t *testing.T) {
	contracts := []model.Contract{
		{ID: "a", Number: "CT-1", WorkerID: "w1", Status: model.ContractPending, Interval: model.Interval{Start: model.Date(2026, 2, 1), End: model.Date(2026, 1, 1)}},
		{ID: "b", Number: "CT-1", WorkerID: "w2", Status: model.ContractPending, Interval: model.IntervalFromDays(model.Date(2026, 1, 1), 1)},
	}

	errs := ValidateContracts(contracts)

	rules := make([]string, 0, len(errs))
	for _, e := range errs {
		rules = append(rules, e.Rule)
	}
	assert.ElementsMatch(t, []string{RuleValidInterval, RuleUniqueContract}, rules)
}
