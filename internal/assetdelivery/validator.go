package assetdelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAmount checks that a bound field is a positive decimal amount.
var ValidAmount validator.Func = func(fieldLevel validator.FieldLevel) bool {
	value, ok := fieldLevel.Field().Interface().(string)
	if !ok {
		return false
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}

	return amount.GreaterThan(decimal.Zero)
}
