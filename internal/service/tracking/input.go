package tracking

import (
	"strings"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// RecordInput holds the parameters for recording an event. Time is epoch
// seconds; nil means now.
type RecordInput struct {
	TaskType   string
	Time       *int64
	Attributes map[string]string
}

// Validate checks all fields and collects all errors.
func (i RecordInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ParseTaskName(i.TaskType); err != nil {
		errs = append(errs, domain.FieldError{Field: "task", Message: "must contain 1 to 55 letters"})
	}
	if i.Attributes == nil {
		errs = append(errs, domain.FieldError{Field: "attributes", Message: "required"})
	}
	if i.Time != nil && *i.Time < 0 {
		errs = append(errs, domain.FieldError{Field: "time", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// MarkResolvedInput holds the parameters for retiring an item.
type MarkResolvedInput struct {
	TaskType string
	Key      string
	Kind     domain.ResolutionKind
}

// Validate checks all fields and collects all errors.
func (i MarkResolvedInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ParseTaskName(i.TaskType); err != nil {
		errs = append(errs, domain.FieldError{Field: "task", Message: "must contain 1 to 55 letters"})
	}
	if strings.TrimSpace(i.Key) == "" {
		errs = append(errs, domain.FieldError{Field: "key", Message: "required"})
	}
	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be fixed or noterror"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
