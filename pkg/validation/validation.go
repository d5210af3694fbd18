package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Struct runs the `validate` tags of s and converts failures into
// field-level validation errors, one per offending field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewInvalidInput("validation failed", err)
	}
	var out error
	for _, fe := range fieldErrs {
		out = multierr.Append(out, apperror.NewValidation(fieldPath(fe), message(fe)))
	}
	return out
}

// Var validates a single value against a tag expression.
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperror.NewValidation(field, message(fieldErrs[0]))
	}
	return apperror.NewValidation(field, "is invalid")
}

// First reduces a multierr chain to its first error so the client gets a
// single field and reason.
func First(err error) error {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return errs[0]
}

// Prefix rewrites the field of a validation error, e.g. "degree" becomes
// "education[2].degree".
func Prefix(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var out error
	for _, e := range multierr.Errors(err) {
		var appErr *apperror.AppError
		if errors.As(e, &appErr) && appErr.Field != "" {
			out = multierr.Append(out, apperror.NewValidation(prefix+"."+appErr.Field, appErr.Message))
			continue
		}
		out = multierr.Append(out, e)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}
