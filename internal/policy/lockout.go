package policy

import "time"

// MaxFailedAttempts is the number of consecutive failures at which the vault
// is wiped instead of locked.
const MaxFailedAttempts = 5

// LockoutDuration maps the failure count after a failed attempt to the
// lockout it earns: 1→0, 2→10s, 3→30s, 4→2m. Counts outside 1..4 yield 0;
// reaching MaxFailedAttempts is handled by the caller as a wipe.
func LockoutDuration(failureCount int) time.Duration {
	switch failureCount {
	case 2:
		return 10 * time.Second
	case 3:
		return 30 * time.Second
	case 4:
		return 2 * time.Minute
	default:
		return 0
	}
}

// RemainingAttempts returns how many more failures are tolerated before the
// wipe.
func RemainingAttempts(failureCount int) int {
	if failureCount >= MaxFailedAttempts {
		return 0
	}
	return MaxFailedAttempts - failureCount
}

// ShouldWipe reports whether failureCount has reached the wipe threshold.
func ShouldWipe(failureCount int) bool {
	return failureCount >= MaxFailedAttempts
}
