package models

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects messages per request field. Conflict marks errors caused by
// an existing record (duplicate email, phone or slug).
type ValidationError struct {
	Fields   map[string][]string
	Conflict bool
}

// NewFieldError returns a ValidationError with a single message for field.
func NewFieldError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// NewNonFieldError returns a ValidationError that is not tied to a field.
func NewNonFieldError(message string) *ValidationError {
	return NewFieldError(NonFieldErrors, message)
}

// Add appends message to field.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Empty reports whether no messages were collected.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// OrNil returns v as an error only when it carries messages.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}
