package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an indotrip error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrUnknownMember   ErrorCode = "UNKNOWN_MEMBER"    // 403
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrConflict        ErrorCode = "CONFLICT"          // 409
	ErrPayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE" // 413
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// TripError represents a structured error with code, status, and details.
type TripError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TripError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TripError {
	return &TripError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownMember creates a 403 error when a member id does not belong to the trip.
func NewUnknownMember(memberID string) *TripError {
	return &TripError{
		Code:    ErrUnknownMember,
		Status:  403,
		Message: "unknown member",
		Details: map[string]any{"member_id": memberID},
	}
}

// NewNotFound creates a 404 error. kind names the missing entity ("trip", "proposal").
func NewNotFound(kind, identifier string) *TripError {
	return &TripError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *TripError {
	return &TripError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewPayloadTooLarge creates a 413 error for oversized request bodies.
func NewPayloadTooLarge(max int64) *TripError {
	return &TripError{
		Code:    ErrPayloadTooLarge,
		Status:  413,
		Message: fmt.Sprintf("payload exceeds %d bytes", max),
		Details: map[string]any{"max_bytes": max},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging only.
func NewInternal(err error) *TripError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &TripError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As unwraps err to a *TripError.
func As(err error) (*TripError, bool) {
	var tErr *TripError
	if stderrors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}

// Is checks if an error (or anything it wraps) is a TripError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := As(err); ok {
		return tErr.Code == code
	}
	return false
}

// Status returns the HTTP status for err, 500 for anything that is not a TripError.
func Status(err error) int {
	if tErr, ok := As(err); ok {
		return tErr.Status
	}
	return 500
}
