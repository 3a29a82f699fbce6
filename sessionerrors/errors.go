package sessionerrors

import "errors"

// Session sentinel errors. Shared by the session, ws and api packages
// to avoid circular imports.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("too many active sessions")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionClosed   = errors.New("session closed")
)
