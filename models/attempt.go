package models

import "time"

// AttemptState tracks consecutive failed unlock attempts since the last
// success. FailureCount and LockoutUntil are always cleared together.
type AttemptState struct {
	// FailureCount is the number of failures since the last success.
	FailureCount int

	// LockoutUntil is the end of the current lockout. Zero means no lockout
	// was ever set for the current failure series.
	LockoutUntil time.Time
}

// IsLocked reports whether LockoutUntil lies strictly after now.
func (a AttemptState) IsLocked(now time.Time) bool {
	return !a.LockoutUntil.IsZero() && a.LockoutUntil.After(now)
}

// RemainingSeconds returns the whole seconds left until the lockout ends,
// rounded up, so the result is positive exactly while IsLocked is true.
func (a AttemptState) RemainingSeconds(now time.Time) int64 {
	if !a.IsLocked(now) {
		return 0
	}
	remaining := a.LockoutUntil.Sub(now)
	secs := int64(remaining / time.Second)
	if remaining%time.Second != 0 {
		secs++
	}
	return secs
}
