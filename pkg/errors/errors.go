package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrInvalidRequest ErrorCode = iota + 1000
	ErrInvalidScheduleWindow
	ErrDoctorNotFound
	ErrHierarchyMismatch
	ErrSlotTaken
	ErrAppointmentNotFound
	ErrNotFound
	ErrUnauthorized
	ErrInternal
)

// Code extracts the ErrorCode from err; non-AppError values map to ErrInternal.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	return Code(err) == code
}

// Error constructors
func InvalidRequest(message string, err error) *AppError {
	return &AppError{Code: ErrInvalidRequest, Message: message, Err: err}
}

func InvalidScheduleWindow(message string, err error) *AppError {
	return &AppError{Code: ErrInvalidScheduleWindow, Message: message, Err: err}
}

func DoctorNotFound(err error) *AppError {
	return &AppError{Code: ErrDoctorNotFound, Message: "doctor not found", Err: err}
}

func HierarchyMismatch(message string) *AppError {
	return &AppError{Code: ErrHierarchyMismatch, Message: message}
}

func SlotTaken(err error) *AppError {
	return &AppError{Code: ErrSlotTaken, Message: "slot is already taken", Err: err}
}

func AppointmentNotFound(err error) *AppError {
	return &AppError{Code: ErrAppointmentNotFound, Message: "appointment not found", Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}
