package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input format rules live in `binding` struct tags, the tag gin reads when
// binding request bodies. The service checks the same tags so direct callers
// get identical rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	ConfigureValidator(v)
	return v
}

// ConfigureValidator teaches v to report JSON field names, to look inside
// Optional fields and the maxbytes rule. Absent and null Optionals are
// skipped by omitempty.
func ConfigureValidator(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(optionalValue,
		Optional[string]{}, Optional[int]{}, Optional[bool]{},
	)
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
}

// maxBytes limits the encoded length of a string; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

type validatable interface {
	validationValue() any
}

func optionalValue(field reflect.Value) any {
	if o, ok := field.Interface().(validatable); ok {
		return o.validationValue()
	}
	return nil
}

func validateStruct(s any) error {
	return AsValidationError(validate.Struct(s))
}

// AsValidationError turns validator failures into a *ValidationError carrying
// the message for the first failing field. Other errors pass through.
func AsValidationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	return invalid(fieldMessage(fields[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "email":
		return "Invalid email address"
	case "password":
		if fe.Tag() == "maxbytes" {
			return "Password must be at most 72 bytes"
		}
		return "Password must be at least 6 characters"
	case "progress":
		return "Progress must be between 0 and 100"
	}
	return "Invalid " + fe.Field()
}
