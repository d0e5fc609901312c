// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/policy"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/internal/utils"
	"github.com/MKhiriev/vault-gate/internal/validators"
	"github.com/MKhiriev/vault-gate/models"
)

// PinExpiryDays is the vault PIN age at which a change is requested.
const PinExpiryDays = 30

const (
	msgCreatePin       = "Create a vault PIN"
	msgConfirmPin      = "Repeat the PIN to confirm"
	msgPinMismatch     = "PINs do not match, start again"
	msgEnterPin        = "Enter your vault PIN"
	msgUnlocked        = "Vault unlocked"
	msgPinExpired      = "Your PIN is older than 30 days, please change it"
	msgWiped           = "Too many failed attempts, the vault was wiped"
	msgAccessDenied    = "The vault cannot be opened at this time"
	msgCheckInRequired = "Check-in required"
	msgCheckInDone     = "Check-in confirmed"
)

// AuthSessionDeps are the collaborators of an [AuthSessionController].
type AuthSessionDeps struct {
	Credentials CredentialStore
	Audit       AuditLog
	Permissions PermissionRegistry
	Gate        AccessGate
	Vault       MediaVault
	Clock       Clock
	Logger      *logger.Logger
}

type authSession struct {
	mu sync.Mutex

	id          string
	credentials CredentialStore
	audit       AuditLog
	permissions PermissionRegistry
	gate        AccessGate
	vault       MediaVault
	clock       Clock
	validator   validators.Validator
	log         *logger.Logger

	state        models.SessionState
	pending      string
	lockoutUntil time.Time
	pinExpired   bool
	closed       bool
}

// NewAuthSessionController returns a controller that has not been entered
// yet. Call Enter before anything else.
func NewAuthSessionController(deps AuthSessionDeps) AuthSessionController {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &authSession{
		id:          utils.NewUUIDGenerator().Generate(),
		credentials: deps.Credentials,
		audit:       deps.Audit,
		permissions: deps.Permissions,
		gate:        deps.Gate,
		vault:       deps.Vault,
		clock:       deps.Clock,
		validator:   validators.NewVaultPinValidator(),
		log:         log,
	}
}

func (s *authSession) ID() string {
	return s.id
}

// scope tags ctx with the session so every log line carries session_id.
func (s *authSession) scope(ctx context.Context) context.Context {
	ctx = utils.WithSessionID(ctx, s.id)
	return s.log.WithSession(ctx, s.id)
}

func (s *authSession) Enter(ctx context.Context, entry models.EntryPoint) (models.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.SubmitResult{}, ErrSessionClosed
	}
	ctx = s.scope(ctx)
	log := logger.FromContext(ctx)

	s.pending = ""
	s.lockoutUntil = time.Time{}
	s.pinExpired = false

	var signals []models.Signal

	attempts, err := s.credentials.Attempts(ctx)
	if errors.Is(err, store.ErrCorruptedValue) {
		log.Error().Err(err).Str("func", "authSession.Enter").Msg("attempt state unreadable, locking")
		attempts, err = s.credentials.RepairAttempts(ctx)
		if err == nil {
			appendAudit(ctx, s.audit, "Attempt counter unreadable, vault locked")
		}
	}
	if err != nil {
		return s.holdLocked(ctx, err)
	}
	if policy.ShouldWipe(attempts.FailureCount) {
		log.Warn().Str("func", "authSession.Enter").Int("failures", attempts.FailureCount).Msg("resuming interrupted wipe")
		appendAudit(ctx, s.audit, "Vault wipe resumed")
		if err = s.wipe(ctx); err != nil {
			return s.result(msgWiped, models.SignalWiped), errors.Join(ErrWiped, err)
		}
		signals = append(signals, models.SignalWiped)
		attempts = models.AttemptState{}
	}

	configured, err := s.credentials.HasSecret(ctx, models.PrincipalVaultUser)
	if err != nil {
		return s.holdLocked(ctx, err)
	}
	if !configured {
		s.state = models.StateSetupAwaitFirst
		log.Info().Str("func", "authSession.Enter").Stringer("entry", entry).Stringer("state", s.state).Msg("session entered")
		return s.result(msgCreatePin, signals...), nil
	}

	if !s.gate.IsWithinWindow(ctx) {
		s.state = models.StateAccessDenied
		appendAudit(ctx, s.audit, fmt.Sprintf("Access denied outside access window (%s)", entry))
		log.Info().Str("func", "authSession.Enter").Stringer("entry", entry).Msg("entry outside access window")
		return s.result(msgAccessDenied, signals...), ErrAccessDenied
	}

	now := s.clock.Now()
	if attempts.IsLocked(now) {
		s.state = models.StateLockedOut
		s.lockoutUntil = attempts.LockoutUntil
		log.Info().Str("func", "authSession.Enter").Stringer("entry", entry).Int64("remaining_seconds", attempts.RemainingSeconds(now)).Msg("session entered locked out")
		return s.lockedResult(now, signals...), nil
	}

	s.state = models.StateUnlockAwaitInput
	log.Info().Str("func", "authSession.Enter").Stringer("entry", entry).Stringer("state", s.state).Msg("session entered")
	return s.result(msgEnterPin, signals...), nil
}

func (s *authSession) Submit(ctx context.Context, candidate string) (models.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.SubmitResult{}, ErrSessionClosed
	}
	ctx = s.scope(ctx)

	switch s.state {
	case models.StateSetupAwaitFirst:
		return s.submitSetupFirst(ctx, candidate)
	case models.StateSetupAwaitConfirm:
		return s.submitSetupConfirm(ctx, candidate)
	case models.StateUnlockAwaitInput:
		return s.submitUnlock(ctx, candidate)
	case models.StateLockedOut:
		now := s.clock.Now()
		if s.isLocked(now) {
			return s.lockedResult(now), ErrLockedOut
		}
		s.state = models.StateUnlockAwaitInput
		s.lockoutUntil = time.Time{}
		return s.submitUnlock(ctx, candidate)
	case models.StateWiped:
		return s.result(msgWiped, models.SignalWiped), ErrWiped
	case models.StateAccessDenied:
		return s.result(msgAccessDenied), ErrAccessDenied
	case models.StateCheckInRequired:
		return s.result(msgCheckInRequired, models.SignalCheckInRequired), ErrCheckInRequired
	default:
		return s.result(""), fmt.Errorf("%w: submit in %s", ErrInvalidState, s.state)
	}
}

func (s *authSession) submitSetupFirst(ctx context.Context, candidate string) (models.SubmitResult, error) {
	if err := s.validator.Validate(ctx, candidate); err != nil {
		return s.result(err.Error()), fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.pending = candidate
	s.state = models.StateSetupAwaitConfirm
	return s.result(msgConfirmPin), nil
}

func (s *authSession) submitSetupConfirm(ctx context.Context, candidate string) (models.SubmitResult, error) {
	if candidate != s.pending {
		s.pending = ""
		s.state = models.StateSetupAwaitFirst
		return s.result(msgPinMismatch), ErrPinMismatch
	}

	if err := s.credentials.SetSecret(ctx, models.PrincipalVaultUser, candidate); err != nil {
		return s.result(""), err
	}
	s.pending = ""
	if err := s.credentials.ResetAttempts(ctx); err != nil {
		return s.result(""), err
	}
	appendAudit(ctx, s.audit, "PIN configured")

	logger.FromContext(ctx).Info().Str("func", "authSession.submitSetupConfirm").Msg("vault PIN configured")

	return s.completeUnlock(ctx), nil
}

func (s *authSession) submitUnlock(ctx context.Context, candidate string) (models.SubmitResult, error) {
	log := logger.FromContext(ctx)

	ok, err := s.credentials.Matches(ctx, models.PrincipalVaultUser, candidate)
	if err != nil {
		return s.result(""), err
	}

	if ok {
		if err = s.credentials.ResetAttempts(ctx); err != nil {
			return s.result(""), err
		}
		appendAudit(ctx, s.audit, "success")
		log.Info().Str("func", "authSession.submitUnlock").Msg("vault unlocked")
		return s.completeUnlock(ctx), nil
	}

	attempts, err := s.credentials.RecordFailure(ctx)
	if err != nil {
		return s.result(""), err
	}
	appendAudit(ctx, s.audit, "failed")

	log.Info().Str("func", "authSession.submitUnlock").Int("failures", attempts.FailureCount).Msg("wrong vault PIN")

	if policy.ShouldWipe(attempts.FailureCount) {
		if err = s.wipe(ctx); err != nil {
			return s.result(msgWiped, models.SignalWiped), errors.Join(ErrWiped, err)
		}
		return s.result(msgWiped, models.SignalWiped), ErrWiped
	}

	now := s.clock.Now()
	if attempts.IsLocked(now) {
		s.state = models.StateLockedOut
		s.lockoutUntil = attempts.LockoutUntil
		return s.lockedResult(now), ErrAuthMismatch
	}

	left := policy.RemainingAttempts(attempts.FailureCount)
	res := s.result(fmt.Sprintf("Wrong PIN, %d attempts left before the vault is wiped", left))
	res.RemainingAttempts = left
	return res, ErrAuthMismatch
}

// completeUnlock moves the session to UNLOCKED, or to CHECK_IN_REQUIRED when
// a check-in is overdue, and raises the PIN expiry signal.
func (s *authSession) completeUnlock(ctx context.Context) models.SubmitResult {
	var signals []models.Signal
	message := msgUnlocked

	s.pinExpired = s.credentials.AgeInDays(ctx, models.PrincipalVaultUser) >= PinExpiryDays
	if s.pinExpired {
		signals = append(signals, models.SignalPinExpired)
		message = msgPinExpired
	}

	if s.gate.IsCheckInOverdue(ctx) {
		s.state = models.StateCheckInRequired
		return s.result(msgCheckInRequired, append(signals, models.SignalCheckInRequired)...)
	}

	s.state = models.StateUnlocked
	return s.result(message, signals...)
}

// wipe erases the media and then the credential. When the media wipe fails
// the failure count is kept so that the next Enter retries it; the vault PIN
// is cleared either way.
func (s *authSession) wipe(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.state = models.StateWiped
	s.pending = ""
	s.lockoutUntil = time.Time{}
	s.pinExpired = false

	appendAudit(ctx, s.audit, fmt.Sprintf("Vault wiped after %d failed attempts", policy.MaxFailedAttempts))

	if err := s.vault.WipeAllImages(ctx); err != nil {
		log.Err(err).Str("func", "authSession.wipe").Msg("media wipe failed, will retry on next entry")
		return errors.Join(fmt.Errorf("wipe media: %w", err), s.credentials.ClearSecret(ctx, models.PrincipalVaultUser))
	}

	if err := s.credentials.Wipe(ctx); err != nil {
		log.Err(err).Str("func", "authSession.wipe").Msg("credential wipe failed")
		return err
	}

	log.Warn().Str("func", "authSession.wipe").Msg("vault wiped")
	return nil
}

func (s *authSession) Poll(ctx context.Context) (models.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.SubmitResult{}, ErrSessionClosed
	}
	ctx = s.scope(ctx)
	now := s.clock.Now()

	switch s.state {
	case models.StateLockedOut:
		if s.isLocked(now) {
			return s.lockedResult(now), nil
		}
		s.state = models.StateUnlockAwaitInput
		s.lockoutUntil = time.Time{}
		logger.FromContext(ctx).Info().Str("func", "authSession.Poll").Msg("lockout expired")
		return s.result(msgEnterPin), nil
	case models.StateUnlocked:
		if s.gate.IsCheckInOverdue(ctx) {
			s.state = models.StateCheckInRequired
			return s.result(msgCheckInRequired, models.SignalCheckInRequired), nil
		}
		return s.result(""), nil
	case models.StateCheckInRequired:
		return s.result(msgCheckInRequired, models.SignalCheckInRequired), nil
	case models.StateWiped:
		return s.result(msgWiped, models.SignalWiped), nil
	default:
		return s.result(""), nil
	}
}

func (s *authSession) RemainingSeconds(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateLockedOut {
		return 0
	}
	return models.AttemptState{LockoutUntil: s.lockoutUntil}.RemainingSeconds(now)
}

func (s *authSession) CurrentState() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *authSession) IsActionAllowed(ctx context.Context, action models.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != models.StateUnlocked {
		return false
	}
	ctx = s.scope(ctx)

	allowed, err := s.permissions.IsAllowed(ctx, action)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authSession.IsActionAllowed").Stringer("action", action).Msg("permission check failed")
		return false
	}
	return allowed
}

// ChangePin replaces the vault PIN. A wrong old PIN is audited but does not
// count towards the lockout.
func (s *authSession) ChangePin(ctx context.Context, oldPin, newPin, confirmPin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state == models.StateCheckInRequired {
		return ErrCheckInRequired
	}
	if s.state != models.StateUnlocked {
		return fmt.Errorf("%w: change PIN in %s", ErrInvalidState, s.state)
	}
	ctx = s.scope(ctx)

	allowed, err := s.permissions.IsAllowed(ctx, models.ActionChangeOwnPin)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}

	ok, err := s.credentials.Matches(ctx, models.PrincipalVaultUser, oldPin)
	if err != nil {
		return err
	}
	if !ok {
		appendAudit(ctx, s.audit, "Failed vault PIN change attempt")
		return ErrAuthMismatch
	}

	if err = s.validator.Validate(ctx, newPin); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if newPin != confirmPin {
		return ErrPinMismatch
	}

	if err = s.credentials.SetSecret(ctx, models.PrincipalVaultUser, newPin); err != nil {
		return err
	}
	s.pinExpired = false
	appendAudit(ctx, s.audit, "Vault PIN changed")

	logger.FromContext(ctx).Info().Str("func", "authSession.ChangePin").Msg("vault PIN changed")
	return nil
}

func (s *authSession) ConfirmCheckIn(ctx context.Context) (models.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.SubmitResult{}, ErrSessionClosed
	}
	if s.state != models.StateUnlocked && s.state != models.StateCheckInRequired {
		return s.result(""), fmt.Errorf("%w: check-in in %s", ErrInvalidState, s.state)
	}
	ctx = s.scope(ctx)

	if _, err := s.gate.ConfirmCheckIn(ctx); err != nil {
		return s.result(msgCheckInRequired, models.SignalCheckInRequired), err
	}

	s.state = models.StateUnlocked
	var signals []models.Signal
	if s.pinExpired {
		signals = append(signals, models.SignalPinExpired)
	}
	return s.result(msgCheckInDone, signals...), nil
}

func (s *authSession) AuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return nil, ErrSessionClosed
	}
	return s.audit.Entries(s.scope(ctx))
}

func (s *authSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = ""
}

// holdLocked parks a session whose persisted state cannot be read in
// LOCKED_OUT for the longest lockout. The lockout lives in memory only.
func (s *authSession) holdLocked(ctx context.Context, err error) (models.SubmitResult, error) {
	now := s.clock.Now()
	s.state = models.StateLockedOut
	s.lockoutUntil = now.Add(policy.LockoutDuration(policy.MaxFailedAttempts - 1))

	logger.FromContext(ctx).Err(err).Str("func", "authSession.holdLocked").Msg("session state unreadable, locked")
	return s.lockedResult(now), fmt.Errorf("%w: %w", ErrLockedOut, err)
}

func (s *authSession) isLocked(now time.Time) bool {
	return models.AttemptState{LockoutUntil: s.lockoutUntil}.IsLocked(now)
}

func (s *authSession) result(message string, signals ...models.Signal) models.SubmitResult {
	return models.SubmitResult{State: s.state, Message: message, Signals: signals}
}

func (s *authSession) lockedResult(now time.Time, signals ...models.Signal) models.SubmitResult {
	remaining := models.AttemptState{LockoutUntil: s.lockoutUntil}.RemainingSeconds(now)
	res := s.result(fmt.Sprintf("Too many attempts, try again in %d s", remaining), signals...)
	res.RemainingSeconds = remaining
	return res
}
