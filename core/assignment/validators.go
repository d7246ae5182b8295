package assignment

import (
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/backend/core"
)

var (
	typeTag  = "assignmenttype"
	typeText = "invalid assignment type"
)

func init() {
	_ = core.Validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(typeTag, typeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range AllTypes {
		if val == t {
			return true
		}
	}
	return false
}
