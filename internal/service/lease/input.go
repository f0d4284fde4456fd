package lease

import (
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// AssignNextInput holds the parameters for one assignment.
// Now and LeasePeriod are in seconds.
type AssignNextInput struct {
	TaskType    string
	Now         int64
	LeasePeriod int64
}

// Validate checks all fields and collects all errors.
func (i AssignNextInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ParseTaskName(i.TaskType); err != nil {
		errs = append(errs, domain.FieldError{Field: "task", Message: "must contain 1 to 55 letters"})
	}
	if i.Now < 0 {
		errs = append(errs, domain.FieldError{Field: "now", Message: "must be non-negative"})
	}
	if i.LeasePeriod <= 0 {
		errs = append(errs, domain.FieldError{Field: "lease_period", Message: "must be positive"})
	} else if i.Now >= 0 && i.Now >= domain.LeaseResolved-i.LeasePeriod {
		errs = append(errs, domain.FieldError{Field: "lease_period", Message: "lease would not expire"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
