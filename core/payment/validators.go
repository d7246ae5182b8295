package payment

import (
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/backend/core"
)

func init() {
	_ = core.Validate.RegisterValidation("paymentstatus", statusValidation)
	core.RegisterCustomTranslation("paymentstatus", "{0} is not a valid payment status")
}

func statusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, status := range AllStatuses {
		if val == status {
			return true
		}
	}
	return false
}
