// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("debt_direction", validateDebtDirection)
		_ = v.RegisterValidation("debt_status", validateDebtStatus)
		_ = v.RegisterValidation("export_format", validateExportFormat)
		_ = v.RegisterValidation("year_month", validateYearMonth)
	}
}

// decimalValue lets numeric tags such as gt=0 and gte=0 apply to decimal
// fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateDebtDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "owed_by_me", "owed_to_me":
		return true
	}
	return false
}

func validateDebtStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "paid":
		return true
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "csv", "xlsx":
		return true
	}
	return false
}

func validateYearMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01", fl.Field().String())
	return err == nil
}
