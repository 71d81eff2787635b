package errors

import "fmt"

type ErrorCode int

const (
	// Generic
	ErrInternalServer     ErrorCode = 5000
	ErrInvalidInput       ErrorCode = 4000
	ErrInvalidRequestData ErrorCode = 4001
	ErrNotFound           ErrorCode = 4004
	ErrAlreadyExists      ErrorCode = 4009
	ErrTooManyRequests    ErrorCode = 4029

	// Auth
	ErrUnauthorized               ErrorCode = 4010
	ErrTokenExpired               ErrorCode = 4011
	ErrInvalidTokenFormat         ErrorCode = 4012
	ErrMissingAuthorizationHeader ErrorCode = 4013
	ErrForbidden                  ErrorCode = 4030

	// Persistence
	ErrCreateFailed ErrorCode = 5001
	ErrGetFailed    ErrorCode = 5002
	ErrUpdateFailed ErrorCode = 5003
	ErrDeleteFailed ErrorCode = 5004

	// Scheduling
	ErrScheduleInvalid       ErrorCode = 4100
	ErrBookingConflict       ErrorCode = 4109
	ErrExternalBookingFailed ErrorCode = 5102
	ErrCalendarUnavailable   ErrorCode = 5103
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
