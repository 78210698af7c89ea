package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrMissingIdentifier = new(ErrCodeMissingIdentifier, "Missing invoice id")
	ErrUpstream          = new(ErrCodeUpstream, "billing provider error")
	ErrRender            = new(ErrCodeRender, "render error")
	ErrValidation        = new(ErrCodeValidation, "validation error")
	ErrSystem            = new(ErrCodeSystemError, "system error")
	// sentinels in match order; an error marked more than once resolves to
	// the first listed, so the stage that failed wins over ErrSystem
	sentinels = []sentinelStatus{
		{ErrMissingIdentifier, http.StatusBadRequest},
		{ErrUpstream, http.StatusBadGateway},
		{ErrRender, http.StatusInternalServerError},
		{ErrValidation, http.StatusBadRequest},
		{ErrSystem, http.StatusInternalServerError},
	}
)

type sentinelStatus struct {
	err    *InternalError
	status int
}

const (
	ErrCodeMissingIdentifier = "missing_identifier"
	ErrCodeUpstream          = "upstream_error"
	ErrCodeRender            = "render_error"
	ErrCodeSystemError       = "system_error"
	ErrCodeValidation        = "validation_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsMissingIdentifier checks if an error was raised before any provider call because no invoice id was given
func IsMissingIdentifier(err error) bool {
	return errors.Is(err, ErrMissingIdentifier)
}

// IsUpstream checks if an error came from the billing provider
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsRender checks if an error came from the template or PDF stage
func IsRender(err error) bool {
	return errors.Is(err, ErrRender)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Message returns the first hint attached to err, falling back to the
// message of the sentinel it is marked with.
func Message(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint != "" {
			return hint
		}
	}
	if s, ok := match(err); ok {
		return s.err.Message
	}
	return err.Error()
}

// Code returns the machine-readable code of the sentinel err is marked with
func Code(err error) string {
	if s, ok := match(err); ok {
		return s.err.Code
	}
	return ErrCodeSystemError
}

func HTTPStatusFromErr(err error) int {
	if s, ok := match(err); ok {
		return s.status
	}
	return http.StatusInternalServerError
}

func match(err error) (sentinelStatus, bool) {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s, true
		}
	}
	return sentinelStatus{}, false
}
