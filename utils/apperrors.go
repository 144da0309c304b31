package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a domain failure so controllers can map it onto an
// HTTP status without inspecting message text.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindConflict
	KindPermission
	KindNotFound
	KindInvalidState
	KindAuthentication
	KindExternalService
	KindUnsupportedFormat
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) *AppError {
	return newError(KindValidation, format, args...)
}

func ConflictError(format string, args ...any) *AppError {
	return newError(KindConflict, format, args...)
}

func PermissionError(format string, args ...any) *AppError {
	return newError(KindPermission, format, args...)
}

func NotFoundError(format string, args ...any) *AppError {
	return newError(KindNotFound, format, args...)
}

func InvalidStateError(format string, args ...any) *AppError {
	return newError(KindInvalidState, format, args...)
}

func AuthenticationError(format string, args ...any) *AppError {
	return newError(KindAuthentication, format, args...)
}

func ExternalServiceError(err error, format string, args ...any) *AppError {
	e := newError(KindExternalService, format, args...)
	e.Err = err
	return e
}

func UnsupportedFormatError(format string, args ...any) *AppError {
	return newError(KindUnsupportedFormat, format, args...)
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps an error to a response status. Unclassified errors are
// treated as internal failures.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindUnsupportedFormat:
		return http.StatusBadRequest
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
