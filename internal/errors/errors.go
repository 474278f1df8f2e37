package errors

import "errors"

// Common error types for the portal client
var (
	// Session errors
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrForbiddenRole    = errors.New("role not permitted for this view")
	ErrUnknownRole      = errors.New("unable to determine role")
	ErrTokenUnavailable = errors.New("token unavailable")

	// Input errors
	ErrPasswordRequired = errors.New("password required")
	ErrNotConfirmed     = errors.New("operation not confirmed")

	// General errors
	ErrInternal = errors.New("internal error")
)
