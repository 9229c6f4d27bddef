// Package apperror maps domain failures onto the codes and HTTP statuses the API reports.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"setshaba-be/models"
	"setshaba-be/store"
)

// Code is a stable, machine-readable error identifier
type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeMissingRequired    Code = "MISSING_REQUIRED_FIELD"
	CodeNotFound           Code = "RECORD_NOT_FOUND"
	CodeConflict           Code = "RECORD_ALREADY_EXISTS"
	CodeEditConflict       Code = "EDIT_CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeRateLimit          Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// AppError is an error with a code and a message safe to show to users
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on code so callers can compare against the package sentinels.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return false
}

// Status returns the HTTP status for the error's code.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeInvalidInput, CodeMissingRequired:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEditConflict:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// JSON is the response body for the error.
func (e *AppError) JSON() map[string]any {
	return map[string]any{
		"error": e.Message,
		"code":  e.Code,
	}
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

var (
	ErrUnauthorized       = New(CodeUnauthorized, "User not authenticated")
	ErrForbidden          = New(CodeForbidden, "Administrator access required")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid credentials")
)

// From classifies err. Known store and model errors get their own code; anything
// else becomes an internal error whose message hides the cause.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, store.ErrMissingFields):
		return Wrap(CodeMissingRequired, "Please fill in all fields.", err)
	case errors.Is(err, store.ErrIssueNotFound):
		return Wrap(CodeNotFound, "Issue not found", err)
	case errors.Is(err, store.ErrIssueConflict):
		return Wrap(CodeEditConflict, "Issue was changed by someone else, please try again", err)
	case errors.Is(err, store.ErrFeedbackNotFound):
		return Wrap(CodeNotFound, "Feedback not found", err)
	case errors.Is(err, store.ErrUserNotFound):
		return Wrap(CodeNotFound, "User not found", err)
	case errors.Is(err, store.ErrEmailTaken):
		return Wrap(CodeConflict, "User with this email already exists", err)
	case errors.Is(err, models.ErrInvalidCategory):
		return Wrap(CodeInvalidInput, "Invalid category", err)
	case errors.Is(err, models.ErrInvalidUrgency):
		return Wrap(CodeInvalidInput, "Invalid urgency", err)
	case errors.Is(err, models.ErrInvalidStatus):
		return Wrap(CodeInvalidInput, "Invalid status", err)
	case errors.Is(err, models.ErrInvalidFeedbackStatus):
		return Wrap(CodeInvalidInput, "Invalid feedback status", err)
	}
	return Wrap(CodeInternal, "Something went wrong", err)
}
