package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/policy"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/models"
)

type credentialStore struct {
	prefs store.PreferenceStore
	clock Clock
}

// NewCredentialStore returns a [CredentialStore] over prefs.
func NewCredentialStore(prefs store.PreferenceStore, clock Clock) CredentialStore {
	return &credentialStore{prefs: prefs, clock: clock}
}

func (c *credentialStore) SetSecret(ctx context.Context, principal models.Principal, value string) error {
	secretKey, setAtKey := store.SecretKeys(principal)
	now := c.clock.Now()

	err := c.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		if err := tx.Set(secretKey, value); err != nil {
			return err
		}
		return tx.Set(setAtKey, formatTime(now))
	})
	if err != nil {
		return fmt.Errorf("set %s secret: %w", principal, err)
	}
	return nil
}

func (c *credentialStore) GetSecret(ctx context.Context, principal models.Principal) (models.Credential, bool, error) {
	log := logger.FromContext(ctx)
	secretKey, setAtKey := store.SecretKeys(principal)

	secret, ok, err := c.prefs.Get(ctx, secretKey)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("get %s secret: %w", principal, err)
	}
	if !ok {
		return models.Credential{}, false, nil
	}

	cred := models.Credential{Principal: principal, Secret: secret}

	setAt, _, err := readTime(storeGetter(ctx, c.prefs), setAtKey)
	if err != nil {
		// age is advisory; an unreadable set-time counts as "just set"
		log.Warn().Err(err).
			Str("func", "credentialStore.GetSecret").
			Stringer("principal", principal).
			Msg("secret set-time is unreadable")
	} else {
		cred.SetAt = setAt
	}

	return cred, true, nil
}

func (c *credentialStore) HasSecret(ctx context.Context, principal models.Principal) (bool, error) {
	secretKey, _ := store.SecretKeys(principal)

	_, ok, err := c.prefs.Get(ctx, secretKey)
	if err != nil {
		return false, fmt.Errorf("check %s secret: %w", principal, err)
	}
	return ok, nil
}

func (c *credentialStore) ClearSecret(ctx context.Context, principal models.Principal) error {
	secretKey, setAtKey := store.SecretKeys(principal)

	if err := c.prefs.Remove(ctx, secretKey, setAtKey); err != nil {
		return fmt.Errorf("clear %s secret: %w", principal, err)
	}
	return nil
}

func (c *credentialStore) AgeInDays(ctx context.Context, principal models.Principal) int {
	cred, ok, err := c.GetSecret(ctx, principal)
	if err != nil || !ok {
		return 0
	}
	return cred.AgeInDays(c.clock.Now())
}

func (c *credentialStore) Matches(ctx context.Context, principal models.Principal, candidate string) (bool, error) {
	cred, ok, err := c.GetSecret(ctx, principal)
	if err != nil || !ok {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(cred.Secret), []byte(candidate)) == 1, nil
}

func (c *credentialStore) Attempts(ctx context.Context) (models.AttemptState, error) {
	state, err := readAttempts(storeGetter(ctx, c.prefs))
	if err != nil {
		return models.AttemptState{}, fmt.Errorf("read attempts: %w", err)
	}
	return state, nil
}

func (c *credentialStore) RecordFailure(ctx context.Context) (models.AttemptState, error) {
	var state models.AttemptState
	now := c.clock.Now()

	err := c.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		current, err := readAttempts(tx.Get)
		if err != nil {
			return err
		}

		state = models.AttemptState{FailureCount: current.FailureCount + 1}
		if err = tx.Set(store.KeyFailedAttempts, fmt.Sprint(state.FailureCount)); err != nil {
			return err
		}

		if d := policy.LockoutDuration(state.FailureCount); d > 0 {
			state.LockoutUntil = now.Add(d)
			return tx.Set(store.KeyLockoutUntil, formatTime(state.LockoutUntil))
		}
		return tx.Remove(store.KeyLockoutUntil)
	})
	if err != nil {
		return models.AttemptState{}, fmt.Errorf("record failure: %w", err)
	}

	return state, nil
}

func (c *credentialStore) ResetAttempts(ctx context.Context) error {
	if err := c.prefs.Remove(ctx, store.KeyFailedAttempts, store.KeyLockoutUntil); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func (c *credentialStore) RepairAttempts(ctx context.Context) (models.AttemptState, error) {
	count := policy.MaxFailedAttempts - 1
	state := models.AttemptState{
		FailureCount: count,
		LockoutUntil: c.clock.Now().Add(policy.LockoutDuration(count)),
	}

	err := c.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		if err := tx.Set(store.KeyFailedAttempts, fmt.Sprint(state.FailureCount)); err != nil {
			return err
		}
		return tx.Set(store.KeyLockoutUntil, formatTime(state.LockoutUntil))
	})
	if err != nil {
		return models.AttemptState{}, fmt.Errorf("repair attempts: %w", err)
	}
	return state, nil
}

func (c *credentialStore) Wipe(ctx context.Context) error {
	err := c.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		return tx.Remove(
			store.KeyVaultPin,
			store.KeyVaultPinSetAt,
			store.KeyFailedAttempts,
			store.KeyLockoutUntil,
		)
	})
	if err != nil {
		return fmt.Errorf("wipe credentials: %w", err)
	}
	return nil
}

func readAttempts(get getFunc) (models.AttemptState, error) {
	count, _, err := readInt(get, store.KeyFailedAttempts)
	if err != nil {
		return models.AttemptState{}, err
	}
	if count < 0 {
		return models.AttemptState{}, fmt.Errorf("%w: negative failure count", store.ErrCorruptedValue)
	}

	until, _, err := readTime(get, store.KeyLockoutUntil)
	if err != nil {
		return models.AttemptState{}, err
	}

	return models.AttemptState{FailureCount: count, LockoutUntil: until}, nil
}
