// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/vault-gate/models"
)

// CredentialStore holds the secrets of both principals together with the
// failed-attempt state of the vault PIN.
type CredentialStore interface {
	// SetSecret stores value and the current time as one atomic write.
	SetSecret(ctx context.Context, principal models.Principal, value string) error

	// GetSecret returns the credential of principal. ok is false when the
	// principal was never configured.
	GetSecret(ctx context.Context, principal models.Principal) (cred models.Credential, ok bool, err error)

	// HasSecret distinguishes "never configured" from "configured".
	HasSecret(ctx context.Context, principal models.Principal) (bool, error)

	ClearSecret(ctx context.Context, principal models.Principal) error

	// AgeInDays returns whole days since the secret was set, or 0 when it was
	// never set or cannot be read. It never fails.
	AgeInDays(ctx context.Context, principal models.Principal) int

	// Matches compares candidate with the stored secret in constant time.
	// An unconfigured principal matches nothing.
	Matches(ctx context.Context, principal models.Principal, candidate string) (bool, error)

	Attempts(ctx context.Context) (models.AttemptState, error)

	// RecordFailure increments the failure count and applies the lockout it
	// earns in a single read-modify-write. It returns the new state.
	RecordFailure(ctx context.Context) (models.AttemptState, error)

	// ResetAttempts clears the failure count and the lockout together.
	ResetAttempts(ctx context.Context) error

	// RepairAttempts overwrites an unreadable attempt state with the last
	// step before the wipe, locked for that step's duration.
	RepairAttempts(ctx context.Context) (models.AttemptState, error)

	// Wipe removes the vault PIN and the attempt state as one unit.
	Wipe(ctx context.Context) error
}

// AuditLog is the bounded, newest-first access log.
type AuditLog interface {
	// Append prepends an entry stamped with the current time and truncates
	// the log to its capacity.
	Append(ctx context.Context, description string) error

	// Prune drops entries older than the retention period relative to now
	// and returns how many were removed.
	Prune(ctx context.Context, now time.Time) (int, error)

	// Entries returns the log, newest first.
	Entries(ctx context.Context) ([]models.AuditEntry, error)

	Clear(ctx context.Context) error
}

// PermissionRegistry resolves the role and capability flags configured by
// the admin.
type PermissionRegistry interface {
	Role(ctx context.Context) (models.Role, error)
	SetRole(ctx context.Context, role models.Role) error
	Capabilities(ctx context.Context) (models.CapabilitySet, error)
	SetCapability(ctx context.Context, action models.Action, allowed bool) error

	// IsAllowed must be consulted at the moment an action executes.
	IsAllowed(ctx context.Context, action models.Action) (bool, error)
}

// AccessGate reads and writes the access window and check-in settings.
// Reads never fail: malformed or unreadable data is logged as
// [ErrConfiguration] and treated as "no restriction".
type AccessGate interface {
	Window(ctx context.Context) models.AccessWindow
	SetWindow(ctx context.Context, window models.AccessWindow) error
	IsWithinWindow(ctx context.Context) bool

	CheckIn(ctx context.Context) models.CheckInState
	SetCheckIn(ctx context.Context, state models.CheckInState) error
	IsCheckInOverdue(ctx context.Context) bool

	// ConfirmCheckIn stamps the check-in with the current time and audits it.
	ConfirmCheckIn(ctx context.Context) (models.CheckInState, error)
}

// AuthSessionController drives one vault session through setup, unlock,
// lockout and wipe. Calls on one controller are serialized.
type AuthSessionController interface {
	// ID returns the session identifier attached to every log line.
	ID() string

	// Enter evaluates the persisted state from scratch and places the
	// session in its starting state. It is also the only way out of the
	// wiped and access-denied states.
	Enter(ctx context.Context, entry models.EntryPoint) (models.SubmitResult, error)

	// Submit feeds one PIN entry to the state machine.
	Submit(ctx context.Context, candidate string) (models.SubmitResult, error)

	// Poll re-evaluates time-driven transitions: lockout expiry and overdue
	// check-ins.
	Poll(ctx context.Context) (models.SubmitResult, error)

	// RemainingSeconds returns the lockout time left at now, rounded up, or
	// 0 when the session is not locked out. It does not touch storage.
	RemainingSeconds(now time.Time) int64

	CurrentState() models.SessionState

	// IsActionAllowed reports whether action may run now. It requires an
	// unlocked session and re-reads the permissions on every call.
	IsActionAllowed(ctx context.Context, action models.Action) bool

	ChangePin(ctx context.Context, oldPin, newPin, confirmPin string) error
	ConfirmCheckIn(ctx context.Context) (models.SubmitResult, error)
	AuditLog(ctx context.Context) ([]models.AuditEntry, error)

	// Close disposes the session. Later calls return [ErrSessionClosed].
	Close()
}

// LockoutCountdown periodically polls a locked-out session until the
// lockout ends.
type LockoutCountdown interface {
	// Start stops any running countdown, then polls session every interval
	// and reports each result to onTick. The countdown stops by itself once
	// the session leaves the locked-out state. The returned channel is
	// closed when the countdown ends; a failed poll is sent on it first.
	Start(ctx context.Context, session AuthSessionController, interval time.Duration, onTick func(models.SubmitResult)) <-chan error

	// Stop cancels the countdown and waits for it to exit.
	Stop()
}

// AdminService guards the admin settings behind the admin PIN.
type AdminService interface {
	// Authorize opens an admin session. Without a configured admin PIN
	// access is granted directly.
	Authorize(ctx context.Context, adminPin string) (AdminSession, error)
}

// AdminSession performs admin operations. Every change is audited.
type AdminSession interface {
	Settings(ctx context.Context) (models.AdminSettings, error)
	SetAdminPin(ctx context.Context, currentPin, newPin, confirmPin string) error
	SetRole(ctx context.Context, role models.Role) error
	SetCapability(ctx context.Context, action models.Action, allowed bool) error
	SetAccessWindow(ctx context.Context, window models.AccessWindow) error
	SetCheckIn(ctx context.Context, required bool, intervalHours int) error
	ClearAuditLog(ctx context.Context) error
	AuditLog(ctx context.Context) ([]models.AuditEntry, error)
}
