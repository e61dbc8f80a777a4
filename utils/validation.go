package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+\d{1,3}\d{10,13}$`)

var (
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
	digitPattern  = regexp.MustCompile(`\d`)
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("letterdigit", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return letterPattern.MatchString(s) && digitPattern.MatchString(s)
	})
	return v
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidationMessage validates s and returns the message for the first failing field,
// or "" when s is valid. messages is keyed by the field's JSON path ("address.city")
// and may be nil.
func ValidationMessage(s interface{}, messages map[string]string) string {
	err := Validate.Struct(s)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}

	fe := fieldErrs[0]
	path := fieldPath(fe.Namespace())
	if msg, ok := messages[path]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return defaultMessage(fe)
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "A valid email is required."
	case "phone":
		return "Phone number must include a country code, with a total length of 10 to 13 digits."
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("Invalid or missing %s", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
