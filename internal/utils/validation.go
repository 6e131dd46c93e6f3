package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
	dateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidEmail reports whether email looks like name@domain.tld.
func IsValidEmail(email string) bool { return emailRegex.MatchString(email) }

// IsValidMobile accepts 10-digit Indian mobile numbers starting with 6-9.
func IsValidMobile(mobile string) bool { return mobileRegex.MatchString(mobile) }

// IsFullName requires at least a first and a last name.
func IsFullName(name string) bool { return len(strings.Fields(name)) >= 2 }

// NewValidator returns a validator with the FarmCare-specific tags registered:
//
//	farmemail  – IsValidEmail
//	mobile     – IsValidMobile
//	fullname   – IsFullName
//	isodate    – YYYY-MM-DD
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("farmemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsValidMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return IsFullName(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return dateRegex.MatchString(fl.Field().String())
	})
	return v
}

// ValidationMessage flattens validator errors into a short public message.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "farmemail":
		return "Invalid email format"
	case "mobile":
		return "Invalid mobile number format (must be 10 digits starting with 6-9)"
	case "fullname":
		return "Full name must include first and last name"
	case "isodate":
		return "Invalid date format. Use YYYY-MM-DD"
	case "gt":
		return field + " must be greater than " + fe.Param()
	}
	return field + " is invalid"
}
