package service

import "errors"

// Outcome classification of session and admin operations. Callers match with
// [errors.Is]; user-facing text lives in the result messages.
var (
	// ErrValidation wraps a rejected PIN composition. Recoverable, the
	// failure counter is untouched.
	ErrValidation = errors.New("validation error")
	// ErrPinMismatch means the confirmation differs from the new PIN.
	ErrPinMismatch = errors.New("PIN confirmation does not match")
	// ErrAuthMismatch means the submitted PIN is wrong.
	ErrAuthMismatch = errors.New("wrong PIN")
	// ErrLockedOut means input is refused until the lockout ends.
	ErrLockedOut = errors.New("locked out")
	// ErrWiped means the vault was wiped. The session is over.
	ErrWiped = errors.New("vault wiped")
	// ErrConfiguration marks malformed or invalid window/check-in settings.
	ErrConfiguration = errors.New("configuration error")

	ErrAccessDenied     = errors.New("access denied outside access window")
	ErrCheckInRequired  = errors.New("check-in required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrSessionClosed    = errors.New("session closed")
	ErrAdminAuthFailed  = errors.New("admin authentication failed")
)
