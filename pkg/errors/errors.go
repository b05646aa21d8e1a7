package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types organized by category for better error handling

type ErrorType int

// Domain errors
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound

	// Infrastructure errors - failures talking to the weather API
	ErrorTypeExternalAPI
	ErrorTypeAuthentication

	// System/Configuration errors
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeExternalAPI:
		return "EXTERNAL_API_ERROR"
	case ErrorTypeAuthentication:
		return "AUTHENTICATION_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across the codebase
const (
	ValidationError     = ErrorTypeValidation
	NotFoundError       = ErrorTypeNotFound
	ExternalAPIError    = ErrorTypeExternalAPI
	AuthenticationError = ErrorTypeAuthentication
	ConfigurationError  = ErrorTypeConfiguration
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewExternalAPIError(message string, cause error) *AppError {
	return Wrap(ExternalAPIError, message, cause)
}

func NewAuthenticationError(message string, cause error) *AppError {
	return Wrap(AuthenticationError, message, cause)
}

func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// TypeOf returns the application error type carried by err's chain.
// An AppError takes precedence over a FetchError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	if fetchErr, ok := AsFetchError(err); ok {
		return fetchErr.AppType()
	}
	return ErrorTypeUnknown
}

func IsNotFoundError(err error) bool {
	return TypeOf(err) == NotFoundError
}

func IsValidationError(err error) bool {
	return TypeOf(err) == ValidationError
}

func IsExternalAPIError(err error) bool {
	return TypeOf(err) == ExternalAPIError
}

func IsAuthenticationError(err error) bool {
	return TypeOf(err) == AuthenticationError
}

func IsConfigurationError(err error) bool {
	return TypeOf(err) == ConfigurationError
}
