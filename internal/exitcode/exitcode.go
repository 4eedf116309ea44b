// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"notes/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, invalid input).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps a service failure to an exit code.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, service.ErrAuth):
		return AuthError
	}
	switch service.KindOf(err) {
	case service.Validation, service.NotFound:
		return UserError
	default:
		return BackendError
	}
}
