package service

import (
	"errors"

	"gorm.io/gorm"

	"taskplanner/internal/apperr"
)

// storeError translates repository failures into application errors.
func storeError(resource, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateError(resource)
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Database(operation, err)
}

// duplicateError is returned when a unique index rejects a write that the
// existence checks let through, e.g. two concurrent creates.
func duplicateError(resource string) error {
	switch resource {
	case "category":
		return apperr.Conflict("name", "Name has already been taken")
	case "user":
		return apperr.Conflict("email", "Email has already been taken")
	default:
		return apperr.Conflict("id", resource+" already exists")
	}
}
