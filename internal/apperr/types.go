// Package apperr defines the structured errors shared by the services, the
// HTTP layer and the API client.
package apperr

import (
	"fmt"
	"sort"
	"strings"
)

// Type represents the category of an error.
type Type int

const (
	TypeValidation Type = iota
	TypeNotFound
	TypeConflict
	TypeUnauthorized
	TypePermission
	TypeDatabase
	TypeNetwork
	TypeRemote
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "validation"
	case TypeNotFound:
		return "not_found"
	case TypeConflict:
		return "conflict"
	case TypeUnauthorized:
		return "unauthorized"
	case TypePermission:
		return "permission"
	case TypeDatabase:
		return "database"
	case TypeNetwork:
		return "network"
	case TypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is a structured application error. Fields carries per-field
// messages for validation failures.
type Error struct {
	Type    Type
	Message string
	Cause   error
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same type.
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return e.Type == other.Type
	}
	return false
}

// IsType checks if this error is of the specified type.
func (e *Error) IsType(t Type) bool {
	return e.Type == t
}

// WithField records a message for a form field.
func (e *Error) WithField(field, message string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// FieldSummary joins field messages in a stable order.
func (e *Error) FieldSummary() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return strings.Join(parts, "; ")
}
