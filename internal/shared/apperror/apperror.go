// Package apperror defines the error taxonomy shared by every OneShot domain.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for retry and transport decisions.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindEncoding     Kind = "ENCODING"
	KindIO           Kind = "IO"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the base error for all domains
type AppError struct {
	Kind    Kind
	Code    string // unique code, e.g. "PROFILE_NOT_FOUND"
	Message string // human-readable message
	Fields  []FieldError
	Err     error // underlying error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows errors.Is / errors.As through the chain
func (e *AppError) Unwrap() error {
	return e.Err
}

// ============================================
// FACTORIES
// ============================================

func Validation(code, message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func Encoding(code, message string, err error) *AppError {
	return &AppError{Kind: KindEncoding, Code: code, Message: message, Err: err}
}

func IO(code, message string, err error) *AppError {
	return &AppError{Kind: KindIO, Code: code, Message: message, Err: err}
}

func NotFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: code, Message: message}
}

func Internal(code, message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// Wrap keeps kind and code of an AppError found in err and replaces the
// message with context. Foreign errors become KindInternal.
func Wrap(err error, code, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{Kind: appErr.Kind, Code: code, Message: message, Fields: appErr.Fields, Err: err}
	}
	return Internal(code, message, err)
}

// ============================================
// CHECKS
// ============================================

// IsKind reports whether any AppError in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// KindOf returns the kind of the outermost AppError, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the message of the outermost AppError, or err.Error().
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// FieldsOf returns the validation entries carried by err, if any.
func FieldsOf(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// MapErrorToHTTP converts err to status code, error code and message.
func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "", "Success"
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}

	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest, appErr.Code, appErr.Message
	case KindNotFound:
		return http.StatusNotFound, appErr.Code, appErr.Message
	case KindConflict:
		return http.StatusConflict, appErr.Code, appErr.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, appErr.Code, appErr.Message
	default:
		return http.StatusInternalServerError, appErr.Code, appErr.Message
	}
}
