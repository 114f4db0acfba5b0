package payment

import (
	"fmt"
	"time"

	"github.com/gyanhq/campus/core"
)

// buildSchedule computes every installment draft up front, so a mid-batch
// date overflow aborts the plan before anything is written.
//
// Due-date rule (installment index i from 0):
//   - future joining date: installment i is due at start + i periods, the
//     first installment falling on the joining date itself;
//   - past or present joining date: installment i is due at
//     start + (i+1) periods, so nothing is due retroactively on the join day.
func buildSchedule(np NewPlan, start time.Time, total int, per int64) ([]Installment, error) {
	now := timeNow()
	isFutureJoining := core.DateOnly(start).After(core.DateOnly(now))

	batch := make([]Installment, 0, total)
	created := now.UTC()
	for i := 0; i < total; i++ {
		offset := i
		if !isFutureJoining {
			offset = i + 1
		}
		due := np.Frequency.Advance(start, offset)
		if due.Year() > 9999 || due.Before(start) {
			return nil, core.NewValidationError(
				fmt.Errorf("failed to calculate due date for installment %d", i+1),
				core.FieldError{
					Field: "joining_date",
					Error: fmt.Sprintf("failed to calculate due date for installment %d", i+1),
				})
		}
		batch = append(batch, Installment{
			StudentID:      np.StudentID,
			UniversityCode: np.UniversityCode,
			InstallmentNo:  i + 1,
			Amount:         per,
			Discount:       np.Discount,
			DueDate:        due,
			CreatedAt:      created,
			UpdatedAt:      created,
		})
	}
	return batch, nil
}
