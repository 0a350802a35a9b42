package replies

import (
	"errors"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type replyInput struct {
	Text string `json:"text"`
}

func (in replyInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text,
			validation.Required.Error(msgEmptyReply),
			validation.RuneLength(0, limits.MaxBodyLength).Error(msgReplyTooLong)),
	)
}

func (in replyInput) check() error {
	err := in.Validate()
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		if fe, ok := errs["text"]; ok {
			return apperr.Wrap(apperr.KindValidation, fe.Error(), err)
		}
	}
	return apperr.Wrap(apperr.KindValidation, msgEmptyReply, err)
}
