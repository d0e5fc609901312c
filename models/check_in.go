package models

import "time"

// CheckInState describes the periodic proof-of-presence requirement.
type CheckInState struct {
	Required      bool
	IntervalHours int
	LastConfirmed time.Time
}
