package policy

import (
	"time"

	"github.com/MKhiriev/vault-gate/models"
)

// MinuteOfDay returns the wall-clock minute of t in t's location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsWithinWindow reports whether now falls inside the daily access window.
// A disabled window always admits. Both bounds are inclusive; start > end
// wraps around midnight. Only the minute of day matters, never the date.
func IsWithinWindow(now time.Time, window models.AccessWindow) bool {
	if !window.Enabled {
		return true
	}

	m := MinuteOfDay(now)
	if window.StartMinute <= window.EndMinute {
		return window.StartMinute <= m && m <= window.EndMinute
	}
	return m >= window.StartMinute || m <= window.EndMinute
}
