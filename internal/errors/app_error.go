package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the closed set of error kinds surfaced to clients.
type Code string

const (
	ErrCodeValidation      Code = "VALIDATION_ERROR"
	ErrCodeBadRequest      Code = "BAD_REQUEST"
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeUnauthorized    Code = "UNAUTHORIZED"
	ErrCodeForbidden       Code = "FORBIDDEN"
	ErrCodeConflict        Code = "CONFLICT"
	ErrCodeTooManyRequests Code = "RATE_LIMIT_EXCEEDED"
	ErrCodeDatabaseError   Code = "DATABASE_ERROR"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
)

// HTTPStatus maps every code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeValidation, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeDatabaseError, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError is true for codes caused by the caller.
func (c Code) IsClientError() bool {
	return c.HTTPStatus() < http.StatusInternalServerError
}

type AppError struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
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

func NewAppError(code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

func (e *AppError) StatusCode() int {
	return e.Code.HTTPStatus()
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrCodeConflict, message)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code Code) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason)).WithDetail("field", field)
}
