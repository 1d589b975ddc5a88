package domain

import "errors"

// Session and authentication error taxonomy. Handlers never invent their
// own statuses for these; the central HTTP error handler maps each one.
var (
	// ErrInvalidCredentials: wrong password for a known account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound: no account for the given identity.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists: registration against an already used email.
	ErrAccountExists = errors.New("account already exists")
	// ErrRoleMismatch: the role selected at login is not among the roles
	// the backend assigned to the account.
	ErrRoleMismatch = errors.New("selected role does not match account roles")
	// ErrAuthFailure: catch-all for unexpected authentication failures.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrSessionExpired: an authenticated upstream call was rejected after
	// initial login; resolved by forced logout, never per call site.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionNotFound: no credentials cached for the presented session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPermissionDenied: authenticated but the role check failed.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUpstreamUnavailable: the marketplace backend could not be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
