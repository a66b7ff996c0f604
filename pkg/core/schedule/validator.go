package schedule

import (
	"fmt"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// ShiftValidationError represents an invariant violation in a set of shift records
type ShiftValidationError struct {
	RecordID    string
	WorkerID    string
	Rule        string
	Description string
}

func (e ShiftValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Description)
}

const (
	RuleOneRecordPerDay = "OneRecordPerWorkerDay"
	RuleLeaveWindow     = "LeaveHasNoWorkingWindow"
	RuleWorkingWindow   = "WorkingHasWindow"
)

// ValidateShiftRecords checks the record invariants across a whole run.
// Returns a slice of validation errors (empty if all valid).
func ValidateShiftRecords(records []model.ShiftRecord) []ShiftValidationError {
	errors := []ShiftValidationError{}

	seen := make(map[string]string)
	for _, r := range records {
		key := r.WorkerID + "/" + model.DateKey(r.Date)
		if other, ok := seen[key]; ok {
			errors = append(errors, ShiftValidationError{
				RecordID:    r.ID,
				WorkerID:    r.WorkerID,
				Rule:        RuleOneRecordPerDay,
				Description: fmt.Sprintf("worker %s has records %s and %s on %s", r.WorkerID, other, r.ID, model.DateKey(r.Date)),
			})
		} else {
			seen[key] = r.ID
		}

		switch r.Status {
		case model.ShiftWorking:
			if r.Start == r.End && !r.CrossesMidnight {
				errors = append(errors, ShiftValidationError{
					RecordID:    r.ID,
					WorkerID:    r.WorkerID,
					Rule:        RuleWorkingWindow,
					Description: fmt.Sprintf("working record on %s has an empty window", model.DateKey(r.Date)),
				})
			}
		default:
			if r.Start != r.End || r.CrossesMidnight {
				errors = append(errors, ShiftValidationError{
					RecordID:    r.ID,
					WorkerID:    r.WorkerID,
					Rule:        RuleLeaveWindow,
					Description: fmt.Sprintf("%s record on %s has window %s-%s", r.Status, model.DateKey(r.Date), r.Start, r.End),
				})
			}
		}
	}

	return errors
}
