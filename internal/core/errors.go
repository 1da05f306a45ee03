// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Upload errors
	ErrUnsupportedFormat = &Error{Code: "UNSUPPORTED_FORMAT", Message: "unsupported file format, use CSV or Excel (.xlsx, .xls)"}
	ErrDecodeFailure     = &Error{Code: "DECODE_FAILURE", Message: "could not decode file, check the file encoding"}
	ErrParseFailure      = &Error{Code: "PARSE_FAILURE", Message: "could not parse file, check the separators (comma, semicolon, tab or pipe)"}
	ErrSchemaViolation   = &Error{Code: "SCHEMA_VIOLATION", Message: "required columns missing"}
	ErrEmptyInput        = &Error{Code: "EMPTY_INPUT", Message: "no data available"}
	ErrUploadTooLarge    = &Error{Code: "UPLOAD_TOO_LARGE", Message: "file too large"}

	// Lookup errors
	ErrNotFound = &Error{Code: "NOT_FOUND", Message: "not found"}

	// Market data errors
	ErrUpstreamFetch = &Error{Code: "UPSTREAM_FETCH_FAILURE", Message: "market data unavailable"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archiving upload failed"}

	// Auth errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// LLM errors
	ErrLLMFailed = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
)
