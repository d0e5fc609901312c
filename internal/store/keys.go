// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "github.com/MKhiriev/vault-gate/models"

// Preference keys. Names are hashed before they reach the database when the
// store is wrapped with [NewEncryptedPreferences].
const (
	KeyVaultPin      = "vault_pin"
	KeyVaultPinSetAt = "vault_pin_set_at"
	KeyAdminPin      = "admin_pin"
	KeyAdminPinSetAt = "admin_pin_set_at"

	KeyFailedAttempts = "failed_attempts"
	KeyLockoutUntil   = "lockout_until"

	KeyUserRole = "user_role"

	KeyAccessWindowEnabled = "access_restriction_enabled"
	KeyAccessWindowStart   = "access_start_minute"
	KeyAccessWindowEnd     = "access_end_minute"

	KeyCheckInRequired = "check_in_required"
	KeyCheckInInterval = "check_in_interval_hours"
	KeyCheckInLast     = "last_check_in"

	KeyAuditLog = "audit_log"
)

// reserved keys, stored in clear by the encrypted wrapper
const (
	keySalt     = "kdf_salt"
	keyKeyCheck = "key_check"
)

// KeyCapability returns the flag key of a Controlled-role capability,
// e.g. "can_delete".
func KeyCapability(action models.Action) string {
	return "can_" + action.String()
}

// SecretKeys returns the secret and set-time keys of a principal.
func SecretKeys(principal models.Principal) (secret, setAt string) {
	if principal == models.PrincipalAdmin {
		return KeyAdminPin, KeyAdminPinSetAt
	}
	return KeyVaultPin, KeyVaultPinSetAt
}
