package stmtc

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors returned by the compiler.
var (
	// ErrInvalidDescriptor is returned when a statement descriptor is malformed
	// or inconsistent, e.g. mismatched column/value counts or an empty batch.
	ErrInvalidDescriptor = errors.New("stmtc: invalid descriptor")

	// ErrIntrospection is returned when the schema introspector failed while
	// the compiler was resolving index metadata for a table.
	ErrIntrospection = errors.New("stmtc: introspection failed")
)

// DescriptorError describes why a statement descriptor was rejected.
// It is always raised before any SQL text is produced.
type DescriptorError struct {
	Kind    string // Operation kind (e.g. "insert", "upsert")
	Field   string // Offending descriptor field, if any
	Message string
}

// Error returns the error string.
func (e *DescriptorError) Error() string {
	var b strings.Builder
	b.WriteString("stmtc: invalid ")
	if e.Kind != "" {
		b.WriteString(e.Kind)
		b.WriteString(" ")
	}
	b.WriteString("descriptor")
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrInvalidDescriptor.
func (e *DescriptorError) Is(target error) bool {
	return target == ErrInvalidDescriptor
}

// NewDescriptorError returns a new DescriptorError.
func NewDescriptorError(kind, field, message string) *DescriptorError {
	return &DescriptorError{Kind: kind, Field: field, Message: message}
}

// IsInvalidDescriptor returns true if the error is a DescriptorError.
func IsInvalidDescriptor(err error) bool {
	if err == nil {
		return false
	}
	var e *DescriptorError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidDescriptor)
}

// IntrospectionError carries a schema introspector failure to the caller.
// The collaborator's error is kept as-is and stays reachable through Unwrap.
type IntrospectionError struct {
	Table string
	Err   error
}

// Error returns the error string.
func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("stmtc: introspecting %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *IntrospectionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrIntrospection.
func (e *IntrospectionError) Is(target error) bool {
	return target == ErrIntrospection
}

// NewIntrospectionError returns a new IntrospectionError for the given table.
func NewIntrospectionError(table string, err error) *IntrospectionError {
	return &IntrospectionError{Table: table, Err: err}
}

// IsIntrospection returns true if the error is an IntrospectionError.
func IsIntrospection(err error) bool {
	if err == nil {
		return false
	}
	var e *IntrospectionError
	return errors.As(err, &e) || errors.Is(err, ErrIntrospection)
}
