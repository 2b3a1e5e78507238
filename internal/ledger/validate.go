package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/felipemaillo/finance-app/internal/auth"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Decimals are validated by their sign.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int:
			return fl.Field().Int() > 0
		default:
			return false
		}
	}); err != nil {
		panic(fmt.Sprintf("register positive_decimal: %v", err))
	}

	// bcrypt rejects inputs longer than 72 bytes; max= would count runes.
	if err := v.RegisterValidation("secret_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxSecretBytes
	}); err != nil {
		panic(fmt.Sprintf("register secret_bytes: %v", err))
	}

	return v
}

// amountPlaces is the precision amounts are stored and reported with.
const amountPlaces = 2

// checkAmount rejects amounts that are not positive or that carry more than
// two decimal places. Trailing zeros are fine: 1.500 is 1.50.
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Truncate(amountPlaces)) {
		return validationError("amount", fmt.Sprintf("must have at most %d decimal places", amountPlaces))
	}
	return nil
}

// validateStruct runs tag validation and reports the first failure as a
// ValidationError.
func (l *Ledger) validateStruct(payload any) error {
	err := l.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationError("", err.Error())
	}

	fe := fieldErrs[0]
	return validationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	case "positive_decimal":
		return "must be greater than zero"
	case "secret_bytes":
		return fmt.Sprintf("must be at most %d bytes", auth.MaxSecretBytes)
	case "gte", "lte":
		return fmt.Sprintf("is out of range (%s %s)", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
