package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Profile validation errors
	CodeValidation Code = "VALIDATION"

	// Wizard errors
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeStepNotAllowed     Code = "STEP_NOT_ALLOWED"

	// Submission errors
	CodeTransport Code = "TRANSPORT"
	CodeParse     Code = "PARSE"

	// Catalog/storage errors
	CodeNotFound    Code = "NOT_FOUND"
	CodeUnavailable Code = "UNAVAILABLE"

	// Internal errors
	CodeInternal Code = "INTERNAL"
)

// HTTPStatus maps an error chain to an HTTP status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeStepNotAllowed:
		return http.StatusConflict
	case CodeInvariantViolation:
		return http.StatusConflict
	case CodeTransport, CodeParse:
		return http.StatusBadGateway
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the dotted translation key for a code's user-facing
// message. Unmapped codes fall back to the generic error message.
func MessageKey(code Code) string {
	switch code {
	case CodeValidation:
		return "errors.validation_failed"
	case CodeInvariantViolation:
		return "errors.missing_data"
	case CodeStepNotAllowed:
		return "errors.step_not_allowed"
	case CodeTransport, CodeParse:
		return "errors.submission_failed"
	case CodeUnavailable, CodeNotFound:
		return "errors.no_data"
	default:
		return "errors.generic"
	}
}
