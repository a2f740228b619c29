package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a problem in introspected index metadata.
type ValidationError struct {
	Table   string
	Index   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of index validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins the validation errors, or returns nil if there are none.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateIndexes checks the index metadata of one table: at most one
// primary key, no index without fields and no duplicate index names.
func ValidateIndexes(table string, indexes []*Index) *ValidationResult {
	result := &ValidationResult{}
	names := make(map[string]bool, len(indexes))
	primary, seenPrimary := "", false
	for _, idx := range indexes {
		if idx == nil {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   table,
				Message: "nil index",
			})
			continue
		}
		if idx.Name != "" {
			if names[idx.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   table,
					Index:   idx.Name,
					Message: "duplicate index name",
				})
			}
			names[idx.Name] = true
		}
		if len(idx.Fields) == 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   table,
				Index:   idx.Name,
				Message: "index has no fields",
			})
		}
		fields := make(map[string]bool, len(idx.Fields))
		for _, f := range idx.Fields {
			if fields[f] {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   table,
					Index:   idx.Name,
					Message: fmt.Sprintf("field %q listed twice", f),
				})
			}
			fields[f] = true
		}
		if idx.Type == Primary {
			if seenPrimary {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   table,
					Index:   idx.Name,
					Message: fmt.Sprintf("second primary key (first is %q)", primary),
				})
				continue
			}
			primary = idx.Name
			seenPrimary = true
		}
	}
	if !seenPrimary {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   table,
			Message: "table has no primary key",
		})
	}
	return result
}
