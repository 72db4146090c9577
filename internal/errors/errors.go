package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// ConfigError reports a missing or malformed configuration value. Raised at
// wire time so a misconfigured deployment fails with a named setting rather
// than a crash mid-request.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Message)
}

func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}

func IsConfigError(err error) (*ConfigError, bool) {
	if ce, ok := err.(*ConfigError); ok {
		return ce, true
	}
	return nil, false
}

// GatewayErrorKind classifies telephony provider failures so callers can
// distinguish a bad recipient number from an account or transport problem.
type GatewayErrorKind string

const (
	GatewayInvalidNumber GatewayErrorKind = "INVALID_NUMBER"
	GatewayAuthFailure   GatewayErrorKind = "AUTH_FAILURE"
	GatewayUnavailable   GatewayErrorKind = "UNAVAILABLE"
	GatewayGeneric       GatewayErrorKind = "GENERIC"
)

type GatewayError struct {
	Kind         GatewayErrorKind
	ProviderCode int
	Message      string
}

func (e *GatewayError) Error() string {
	if e.ProviderCode != 0 {
		return fmt.Sprintf("gateway error %s (provider code %d): %s", e.Kind, e.ProviderCode, e.Message)
	}
	return fmt.Sprintf("gateway error %s: %s", e.Kind, e.Message)
}

func NewGatewayError(kind GatewayErrorKind, providerCode int, message string) *GatewayError {
	return &GatewayError{Kind: kind, ProviderCode: providerCode, Message: message}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	if ge, ok := err.(*GatewayError); ok {
		return ge, true
	}
	return nil, false
}
