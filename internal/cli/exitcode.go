package cli

import (
	"errors"

	"taskplanner/internal/apperr"
	"taskplanner/internal/session"
)

// Exit codes of the planner command.
const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0

	// ExitUserError indicates bad arguments or a rejected request.
	ExitUserError = 1

	// ExitAuthError indicates a missing or rejected login.
	ExitAuthError = 2

	// ExitBackendError indicates the API could not serve the request.
	ExitBackendError = 3
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, session.ErrNoSession) {
		return ExitAuthError
	}
	e, ok := apperr.As(err)
	if !ok {
		return ExitUserError
	}
	switch e.Type {
	case apperr.TypeUnauthorized:
		return ExitAuthError
	case apperr.TypeNetwork, apperr.TypeRemote, apperr.TypeDatabase:
		return ExitBackendError
	default:
		return ExitUserError
	}
}
