package kernel

import (
	"errors"
	"fmt"
	"strings"
)

// FieldViolation describes a single violated business rule.
type FieldViolation struct {
	// Field names the offending input field.
	Field string
	// Description explains why the value was rejected.
	Description string
}

// ValidationError reports rejected construction or mutation input. It always
// carries at least one violation and never corrupts existing state: the
// operation that produced it assigned nothing.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Description))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is a ValidationError, so
// errors.Is(err, &ValidationError{}) matches regardless of violations.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// AsValidation unwraps err into a ValidationError when one is present.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	_, ok := AsValidation(err)
	return ok
}

// Violations accumulates rule violations during validation. The zero value
// is ready to use.
type Violations struct {
	list []FieldViolation
}

// Add records one violated rule.
func (v *Violations) Add(field, description string) {
	v.list = append(v.list, FieldViolation{Field: field, Description: description})
}

// Addf records one violated rule with a formatted description.
func (v *Violations) Addf(field, format string, args ...any) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// Empty reports whether no violations were recorded.
func (v *Violations) Empty() bool {
	return len(v.list) == 0
}

// Err returns nil when no violations were recorded, otherwise a
// ValidationError carrying every recorded violation.
func (v *Violations) Err() error {
	if v.Empty() {
		return nil
	}
	out := make([]FieldViolation, len(v.list))
	copy(out, v.list)
	return &ValidationError{Violations: out}
}
