package allocator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func TestSeededDemand_Bounds(t *testing.T) {
	demand := SeededDemand{Seed: 99, MaxPerClient: 4}

	for i := 0; i < 50; i++ {
		client := model.ClientOrg{ID: fmt.Sprintf("client-%d", i)}

		got := demand.Desired(client, 10)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 4)

		assert.Equal(t, 1, demand.Desired(client, 1), "never more than the match count")
		assert.Equal(t, got, demand.Desired(client, 10), "same client, same answer")
	}

	assert.Equal(t, 0, demand.Desired(model.ClientOrg{ID: "x"}, 0))
}

func TestSeededActivation_ActiveStartsOnOrBeforeToday(t *testing.T) {
	today := model.Date(2026, 5, 10)
	horizon := model.Interval{Start: today.AddDate(0, 0, -30), End: today.AddDate(0, 0, 90)}
	policy := SeededActivation{
		Seed:            5,
		Today:           today,
		ActiveRatio:     0.5,
		BackdateMaxDays: 30,
		LeadMaxDays:     20,
		MinLengthDays:   7,
		MaxLengthDays:   45,
		ShiftTypes:      []model.ShiftType{model.ShiftNight},
	}

	sawActive, sawPending := false, false
	for i := 0; i < 100; i++ {
		act := policy.Activate(i, model.ClientOrg{ID: "c1"}, horizon)

		assert.True(t, horizon.Contains(act.Interval.Start))
		assert.True(t, horizon.Contains(act.Interval.End))
		assert.False(t, act.Interval.End.Before(act.Interval.Start))
		assert.Equal(t, model.ShiftNight, act.ShiftType)

		switch act.Status {
		case model.ContractActive:
			sawActive = true
			assert.False(t, act.Interval.Start.After(today), "active contracts are backdated")
		case model.ContractPending:
			sawPending = true
			assert.True(t, act.Interval.Start.After(today), "pending contracts start in the future")
		default:
			t.Fatalf("unexpected status %s", act.Status)
		}

		assert.Equal(t, act, policy.Activate(i, model.ClientOrg{ID: "c1"}, horizon))
	}
	assert.True(t, sawActive)
	assert.True(t, sawPending)
}

func TestSeededActivation_PendingClampedToTodayBecomesActive(t *testing.T) {
	today := model.Date(2026, 5, 10)
	horizon := model.Interval{Start: today.AddDate(0, 0, -5), End: today}
	policy := SeededActivation{Seed: 1, Today: today, ActiveRatio: 0, LeadMaxDays: 10, MinLengthDays: 3, MaxLengthDays: 3}

	act := policy.Activate(0, model.ClientOrg{ID: "c1"}, horizon)

	assert.Equal(t, model.ContractActive, act.Status)
	assert.Equal(t, today, act.Interval.Start)
	assert.Equal(t, today, act.Interval.End)
}

func TestSkillCatalog_Requirements(t *testing.T) {
	catalog := SkillCatalog{
		Industries: map[string][]string{
			"logistics": {"driver", "picker", "driver", "forklift"},
			"closed":    {},
		},
		Default: []string{"cleaner"},
	}

	tests := []struct {
		name   string
		client model.ClientOrg
		want   []string
	}{
		{"mapped, deduplicated", model.ClientOrg{Industry: "Logistics"}, []string{"driver", "picker", "forklift"}},
		{"preferred first", model.ClientOrg{Industry: "logistics", PreferredPositions: []string{"forklift", "chef"}}, []string{"forklift", "driver", "picker"}},
		{"unmapped uses default", model.ClientOrg{Industry: "aerospace"}, []string{"cleaner"}},
		{"explicitly empty", model.ClientOrg{Industry: "closed"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Requirements(tt.client))
		})
	}
}

func TestDefaultSkillCatalog_HasDefault(t *testing.T) {
	catalog := DefaultSkillCatalog()
	assert.NotEmpty(t, catalog.Default)
	assert.Equal(t, catalog.Default, catalog.Requirements(model.ClientOrg{Industry: "unknown"}))
}
