package models

import "fmt"

// MinutesPerDay bounds the minute-of-day values of an AccessWindow.
const MinutesPerDay = 24 * 60

// AccessWindow is the daily time-of-day range during which the vault may be
// entered. StartMinute > EndMinute denotes a window crossing midnight.
type AccessWindow struct {
	Enabled     bool
	StartMinute int
	EndMinute   int
}

// Valid reports whether both bounds are within 0..1439.
func (w AccessWindow) Valid() bool {
	return validMinute(w.StartMinute) && validMinute(w.EndMinute)
}

// String formats the window as "HH:MM-HH:MM".
func (w AccessWindow) String() string {
	return FormatMinuteOfDay(w.StartMinute) + "-" + FormatMinuteOfDay(w.EndMinute)
}

// FormatMinuteOfDay renders a minute-of-day value as "HH:MM".
func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func validMinute(m int) bool {
	return m >= 0 && m < MinutesPerDay
}
