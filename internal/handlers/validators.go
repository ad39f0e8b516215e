package handlers

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

var registerOnce sync.Once

// RegisterValidators installs the money validators on gin's validator engine.
// Amounts arrive as decimal.Decimal; the custom type func hands validators
// their canonical string form.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money", moneyValidator(func(d decimal.Decimal) bool { return !d.IsNegative() }))
		_ = v.RegisterValidation("money_positive", moneyValidator(func(d decimal.Decimal) bool { return d.IsPositive() }))
		_ = v.RegisterValidation("money_nonzero", moneyValidator(func(d decimal.Decimal) bool { return !d.IsZero() }))
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// moneyValidator also rejects amounts too large for the amount columns.
func moneyValidator(accept func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return domain.MoneyInRange(d) && accept(d)
	}
}
