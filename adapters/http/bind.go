package http

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

// bindError turns a JSON binding failure into an AppError. Type mismatches
// name the offending field.
func bindError(err error, details string) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.NewValidation(typeErr.Field, "must be "+jsonKind(typeErr.Type))
	}
	return apperror.NewInvalidInput(details, err)
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	}
	return "a valid value"
}
