// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package policy

import (
	"time"

	"github.com/MKhiriev/vault-gate/models"
)

// NextDue returns the moment the next check-in falls due.
func NextDue(state models.CheckInState) time.Time {
	return state.LastConfirmed.Add(time.Duration(state.IntervalHours) * time.Hour)
}

// IsOverdue reports whether a required check-in has not been confirmed
// within the interval. The deadline itself already counts as overdue.
func IsOverdue(now time.Time, state models.CheckInState) bool {
	if !state.Required {
		return false
	}
	return !now.Before(NextDue(state))
}

// Confirm returns state with LastConfirmed set to now.
func Confirm(state models.CheckInState, now time.Time) models.CheckInState {
	state.LastConfirmed = now
	return state
}

// HoursUntilDue returns the whole hours left before the next check-in,
// never negative.
func HoursUntilDue(now time.Time, state models.CheckInState) int {
	left := NextDue(state).Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / time.Hour)
}
