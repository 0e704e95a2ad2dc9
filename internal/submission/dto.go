package submission

import (
	"errors"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/core/common/validation"
)

var ErrNoRecipients = errors.New("at least one resource id is required")

type ReminderRequest struct {
	WeekStartDate string  `json:"weekStartDate"`
	ResourceIDs   []int64 `json:"resourceIds"`
}

// Validate checks the week is a Monday and at least one usable id was sent.
func (r ReminderRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("weekStartDate", r.WeekStartDate).
		RequiredWithCode(internal.ErrCodeInvalidWeek).
		Custom(func(value interface{}) *internal.AppError {
			if _, err := ParseWeek(value.(string)); err != nil {
				return internal.NewValidationFieldError("weekStartDate", err.Error(), internal.ErrCodeInvalidWeek)
			}
			return nil
		})
	v.Field("resourceIds", uniqueIDs(r.ResourceIDs)).
		Custom(func(value interface{}) *internal.AppError {
			if len(value.([]int64)) == 0 {
				return internal.NewValidationFieldError("resourceIds", ErrNoRecipients.Error(), internal.ErrCodeNoRecipients)
			}
			return nil
		})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReminderResponse struct {
	SentCount int    `json:"sentCount"`
	BatchID   string `json:"batchId,omitempty"`
}
