package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/helpme/internal/logger"
)

// Code classifies an application failure.
type Code string

const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeDatabase        Code = "DATABASE_ERROR"
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeExternalService Code = "EXTERNAL_SERVICE_ERROR"
)

// AppError is returned by use-cases so callers can branch on Code without
// knowing which layer failed.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Database(msg string, err error) *AppError {
	return &AppError{Code: CodeDatabase, Message: msg, Err: err}
}

func Validation(msg string, err error) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Err: err}
}

func External(msg string, err error) *AppError {
	return &AppError{Code: CodeExternalService, Message: msg, Err: err}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "code", CodeOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
