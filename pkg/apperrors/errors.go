package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an application error for transport mapping.
type Code string

const (
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeUpstreamFailure Code = "UPSTREAM_FAILURE"
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthorized(message string) error {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func InvalidArgument(message string) error {
	return &AppError{Code: CodeInvalidArgument, Message: message}
}

func NotFound(message string) error {
	return &AppError{Code: CodeNotFound, Message: message}
}

func Forbidden(message string) error {
	return &AppError{Code: CodeForbidden, Message: message}
}

func UpstreamFailure(message string, err error) error {
	return &AppError{Code: CodeUpstreamFailure, Message: message, Err: err}
}

// CodeOf returns the classification of err, or empty string for plain errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool  { return CodeOf(err) == CodeNotFound }
func IsForbidden(err error) bool { return CodeOf(err) == CodeForbidden }
