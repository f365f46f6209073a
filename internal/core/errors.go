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
	// Placement errors. All of these are recoverable: an annotation that
	// cannot be placed is suppressed until a later recomputation succeeds.
	ErrInvalidTimestamp = &Error{Code: "INVALID_TIMESTAMP", Message: "timestamp is malformed or unsupported"}
	ErrProjectionFailed = &Error{Code: "PROJECTION_FAILED", Message: "anchor cannot be projected onto the viewport"}
	ErrNotVisible       = &Error{Code: "NOT_VISIBLE", Message: "anchor outside the visible time range"}
	ErrNoPlacement      = &Error{Code: "NO_PLACEMENT", Message: "no placement found"}

	// Storage errors
	ErrCommentNotFound = &Error{Code: "COMMENT_NOT_FOUND", Message: "comment not found"}
	ErrStorageFailed   = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}

	// Market data errors
	ErrMarketFailed = &Error{Code: "MARKET_FAILED", Message: "market data fetch failed"}
	ErrNoData       = &Error{Code: "NO_DATA", Message: "no data available"}

	// Realtime errors
	ErrChannelClosed   = &Error{Code: "CHANNEL_CLOSED", Message: "realtime channel is closed"}
	ErrInvalidEnvelope = &Error{Code: "INVALID_ENVELOPE", Message: "malformed realtime envelope"}

	// Sentiment errors
	ErrClassifierFailed = &Error{Code: "CLASSIFIER_FAILED", Message: "sentiment classification failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
