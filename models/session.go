// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SessionState is a state of the authentication session state machine.
type SessionState int

const (
	// StateSetupAwaitFirst waits for the first entry of a new vault PIN.
	StateSetupAwaitFirst SessionState = iota + 1

	// StateSetupAwaitConfirm waits for the new vault PIN to be repeated.
	StateSetupAwaitConfirm

	// StateLockedOut refuses input until the lockout expires.
	StateLockedOut

	// StateUnlockAwaitInput waits for the vault PIN.
	StateUnlockAwaitInput

	// StateUnlocked grants access to the vault.
	StateUnlocked

	// StateWiped is terminal for the session: vault content and the vault
	// PIN have been erased.
	StateWiped

	// StateAccessDenied is entered when the vault is entered outside the
	// configured access window.
	StateAccessDenied

	// StateCheckInRequired suspends an unlocked session until the overdue
	// check-in is confirmed.
	StateCheckInRequired
)

// String returns the upper-case name of the state.
func (s SessionState) String() string {
	switch s {
	case StateSetupAwaitFirst:
		return "SETUP_AWAIT_FIRST"
	case StateSetupAwaitConfirm:
		return "SETUP_AWAIT_CONFIRM"
	case StateLockedOut:
		return "LOCKED_OUT"
	case StateUnlockAwaitInput:
		return "UNLOCK_AWAIT_INPUT"
	case StateUnlocked:
		return "UNLOCKED"
	case StateWiped:
		return "WIPED"
	case StateAccessDenied:
		return "ACCESS_DENIED"
	case StateCheckInRequired:
		return "CHECK_IN_REQUIRED"
	default:
		return "UNKNOWN"
	}
}

// AcceptsInput reports whether Submit may be called in this state.
func (s SessionState) AcceptsInput() bool {
	switch s {
	case StateSetupAwaitFirst, StateSetupAwaitConfirm, StateUnlockAwaitInput:
		return true
	default:
		return false
	}
}

// EntryPoint names the path by which the vault is being entered.
type EntryPoint int

const (
	// EntryLauncher is a regular launch of the vault.
	EntryLauncher EntryPoint = iota + 1

	// EntryShare is an entry triggered by an external share action.
	EntryShare
)

// String returns the lower-case name of the entry point.
func (e EntryPoint) String() string {
	switch e {
	case EntryLauncher:
		return "launcher"
	case EntryShare:
		return "share"
	default:
		return "unknown"
	}
}

// Signal is an instruction for the caller that accompanies a result.
type Signal int

const (
	SignalNone Signal = iota

	// SignalPinExpired asks the caller to force a PIN change.
	SignalPinExpired

	// SignalWiped asks the caller to navigate away from any vault content.
	SignalWiped

	// SignalCheckInRequired asks the caller to collect a check-in.
	SignalCheckInRequired
)

// String returns the upper-case name of the signal.
func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "NONE"
	case SignalPinExpired:
		return "PIN_EXPIRED"
	case SignalWiped:
		return "WIPED"
	case SignalCheckInRequired:
		return "CHECK_IN_REQUIRED"
	default:
		return "UNKNOWN"
	}
}

// SubmitResult is what the session reports back after every transition.
//
// Message is advisory text for the user; no decision may be derived from it.
type SubmitResult struct {
	State   SessionState
	Message string

	// RemainingSeconds is the lockout time left. It is set only while State
	// is StateLockedOut.
	RemainingSeconds int64

	// RemainingAttempts is the number of failures left before the vault is
	// wiped. It is set only after a failed unlock attempt.
	RemainingAttempts int

	Signals []Signal
}

// Has reports whether sig is among the result's signals.
func (r SubmitResult) Has(sig Signal) bool {
	for _, s := range r.Signals {
		if s == sig {
			return true
		}
	}
	return false
}
