package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeConfiguration indicates missing or invalid deployment configuration
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeProviderExchange indicates the identity provider rejected a code exchange
	ErrorTypeProviderExchange ErrorType = "provider_exchange"
	// ErrorTypeProviderProfile indicates the identity provider rejected a profile fetch
	ErrorTypeProviderProfile ErrorType = "provider_profile"
	// ErrorTypeProviderTimeout indicates the identity provider was unreachable within the call deadline
	ErrorTypeProviderTimeout ErrorType = "provider_timeout"
	// ErrorTypeTokenSignature indicates a malformed or tampered session token
	ErrorTypeTokenSignature ErrorType = "token_signature"
	// ErrorTypeTokenExpired indicates a structurally valid but expired session token
	ErrorTypeTokenExpired ErrorType = "token_expired"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Message string
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

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// Configurationf creates a configuration error with formatting.
// Configuration errors indicate deployment misconfiguration; they are never
// retried and should alert operators.
func Configurationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// ProviderExchangef creates a provider exchange error with formatting
func ProviderExchangef(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeProviderExchange,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapProviderExchange wraps an error as a provider exchange error
func WrapProviderExchange(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeProviderExchange,
		Message: message,
		Err:     err,
	}
}

// ProviderProfilef creates a provider profile error with formatting
func ProviderProfilef(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeProviderProfile,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapProviderProfile wraps an error as a provider profile error
func WrapProviderProfile(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeProviderProfile,
		Message: message,
		Err:     err,
	}
}

// ProviderTimeout creates a provider timeout error
func ProviderTimeout(message string) error {
	return &AppError{
		Type:    ErrorTypeProviderTimeout,
		Message: message,
	}
}

// TokenSignature creates a token signature error
func TokenSignature(message string) error {
	return &AppError{
		Type:    ErrorTypeTokenSignature,
		Message: message,
	}
}

// WrapTokenSignature wraps an error as a token signature error
func WrapTokenSignature(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeTokenSignature,
		Message: message,
		Err:     err,
	}
}

// TokenExpired creates a token expired error
func TokenExpired(message string) error {
	return &AppError{
		Type:    ErrorTypeTokenExpired,
		Message: message,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
