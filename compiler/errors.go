package compiler

import (
	"errors"
	"fmt"
)

// ErrMissingConfig indicates a configuration error.
var ErrMissingConfig = errors.New("stmtc: missing configuration")

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("stmtc: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("stmtc: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError checks if the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// PolicyError reports a descriptor rejected by the configured policy.
type PolicyError struct {
	Kind  Kind
	Table string
	Err   error
}

func (e *PolicyError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("stmtc: %s on %s rejected: %v", e.Kind, e.Table, e.Err)
	}
	return fmt.Sprintf("stmtc: %s rejected: %v", e.Kind, e.Err)
}

func (e *PolicyError) Unwrap() error {
	return e.Err
}

// IsPolicyError checks if the error is a PolicyError.
func IsPolicyError(err error) bool {
	var e *PolicyError
	return errors.As(err, &e)
}
