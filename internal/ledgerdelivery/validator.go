package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAmount reports whether the field is a positive decimal with at
// most 2 fractional digits. Registered as the "amount" binding tag.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	amount, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return false
	}

	return d.GreaterThan(decimal.Zero) && d.Exponent() >= -2
}
