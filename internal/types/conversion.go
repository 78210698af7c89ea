package types

import (
	"reflect"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/go-viper/mapstructure/v2"
)

var scalarType = reflect.TypeOf(Scalar(""))

// ToStruct converts a map[string]interface{} to a typed struct using the json
// tag names. Numbers of any decoded representation land in Scalar fields
// unchanged; extra hooks run before the Scalar hook.
func ToStruct[T any](value map[string]interface{}, hooks ...mapstructure.DecodeHookFunc) (T, error) {
	var result T

	if value == nil {
		return result, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		TagName:          "json",
		WeaklyTypedInput: true, // Allows type coercion (e.g., float64 to int)
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(append(hooks, ScalarHook)...),
	})
	if err != nil {
		return result, ierr.WithError(err).
			WithHint("Failed to create mapstructure decoder").
			Mark(ierr.ErrValidation)
	}

	if err := decoder.Decode(value); err != nil {
		return result, ierr.WithError(err).
			WithHint("Failed to decode map to struct").
			Mark(ierr.ErrValidation)
	}

	return result, nil
}

// ScalarHook decodes numbers and strings into Scalar fields without the
// float formatting mapstructure would otherwise apply.
func ScalarHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != scalarType {
		return data, nil
	}
	if s, ok := ScalarOf(data); ok {
		return s, nil
	}
	return data, nil
}
