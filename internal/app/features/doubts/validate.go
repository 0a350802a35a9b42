package doubts

import (
	"errors"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// doubtInput holds the trimmed text fields of a compose or edit form.
type doubtInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (in doubtInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error(msgEmptyFields),
			validation.RuneLength(0, limits.MaxTitleLength).Error(msgTitleTooLong)),
		validation.Field(&in.Description,
			validation.Required.Error(msgEmptyFields),
			validation.RuneLength(0, limits.MaxBodyLength).Error(msgBodyTooLong)),
	)
}

// check validates in and returns an apperr validation error carrying the
// first failing field's message.
func (in doubtInput) check() error {
	err := in.Validate()
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, key := range []string{"title", "description"} {
			if fe, ok := errs[key]; ok {
				return apperr.Wrap(apperr.KindValidation, fe.Error(), err)
			}
		}
	}
	return apperr.Wrap(apperr.KindValidation, msgEmptyFields, err)
}
