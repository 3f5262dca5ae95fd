package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Scheduling errors
var (
	// ErrInvalidField is returned when a chain default is requested for a
	// field other than key_day_date or publish_date. Programmer error, never
	// retried.
	ErrInvalidField = errors.New("no default computation for the requested field")

	// ErrSchedulingConflict is returned when the overlap-resolution loop
	// exhausts its iteration bound. The offending session fields need manual
	// correction.
	ErrSchedulingConflict = errors.New("session overlap could not be resolved")

	// ErrConcurrencyConflict is returned on a lock or serialization conflict
	// while mutating chained sessions. Callers should retry the whole save.
	ErrConcurrencyConflict = errors.New("concurrent modification of a neighboring session")
)

// Resource engine errors
var (
	// ErrTypeMismatch is returned before any availability computation when an
	// engine parameter has the wrong kind or an impossible value.
	ErrTypeMismatch = errors.New("availability parameter has the wrong type or range")

	// ErrNotSupported marks aggregations that are intentionally unimplemented
	// so callers never receive silently wrong answers.
	ErrNotSupported = errors.New("operation intentionally not supported")
)

// Session errors
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session with this name already exists")
)

// ClassOffer errors
var (
	ErrClassOfferNotFound = errors.New("class offer not found")
	ErrSubjectNotFound    = errors.New("subject not found")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
