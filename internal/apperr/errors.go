package apperr

import (
	"errors"
	"net/http"
)

// NetworkMessage is shown when the server could not be reached at all.
const NetworkMessage = "Network Error"

// Validation creates a validation error for one field.
func Validation(field, message string) *Error {
	e := &Error{Type: TypeValidation, Message: message}
	if field != "" {
		e.WithField(field, message)
	}
	return e
}

// NotFound creates a not found error for a resource.
func NotFound(resource string) *Error {
	return &Error{Type: TypeNotFound, Message: resource + " not found"}
}

// Conflict creates an error for a uniqueness violation.
func Conflict(field, message string) *Error {
	return (&Error{Type: TypeConflict, Message: message}).WithField(field, message)
}

// Unauthorized creates an authentication error.
func Unauthorized(message string) *Error {
	return &Error{Type: TypeUnauthorized, Message: message}
}

// Permission creates an error for an action on someone else's resource.
func Permission(message string) *Error {
	return &Error{Type: TypePermission, Message: message}
}

// Database wraps a storage failure.
func Database(operation string, cause error) *Error {
	return &Error{Type: TypeDatabase, Message: "database operation failed: " + operation, Cause: cause}
}

// Network wraps a transport failure on the client side.
func Network(cause error) *Error {
	return &Error{Type: TypeNetwork, Message: NetworkMessage, Cause: cause}
}

// FromStatus builds the client-side error for a non-2xx response.
func FromStatus(status int, message string, fields map[string][]string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	t := TypeRemote
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		t = TypeValidation
	case http.StatusUnauthorized:
		t = TypeUnauthorized
	case http.StatusForbidden:
		t = TypePermission
	case http.StatusNotFound:
		t = TypeNotFound
	case http.StatusConflict:
		t = TypeConflict
	}
	return &Error{Type: t, Message: message, Fields: fields}
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err carries an *Error of type t.
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.IsType(t)
	}
	return false
}

// HTTPStatus maps an error to the response status of the REST API.
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Type {
	case TypeValidation:
		return http.StatusUnprocessableEntity
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusUnprocessableEntity
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypePermission:
		return http.StatusForbidden
	case TypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns a message suitable for a transient notification.
func UserMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}
	switch e.Type {
	case TypeDatabase:
		return "A database error occurred. Please try again."
	default:
		return e.Message
	}
}
