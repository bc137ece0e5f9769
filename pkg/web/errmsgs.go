package web

import "github.com/go-playground/validator/v10"

// GetErrorMsg returns a human readable message for a failed binding validation.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "oneof":
		return " must be one of: " + fe.Param()
	case "amount":
		return " must be a valid positive amount"
	default:
		return " is invalid"
	}
}
