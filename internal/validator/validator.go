package validator

import (
	"reflect"
	"strings"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/go-playground/validator/v10"
)

// New builds the validator shared by configuration loading and command input.
// Failing fields are reported by their flag, mapstructure or json name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	return v
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"flag", "mapstructure", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidateRequest validates user input, see Struct
func ValidateRequest(v *validator.Validate, req any) error {
	return Struct(v, req, "Request validation failed")
}

// Struct validates s and marks failures ErrValidation with hint as the
// caller facing message. Each failing field is listed in the details.
func Struct(v *validator.Validate, s any, hint string) error {
	if v == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := v.Struct(s); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fe := range validateErrs {
				details[fe.Namespace()] = fe.Tag()
			}
		}
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
