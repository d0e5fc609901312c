package models

import (
	"fmt"
	"time"
)

// Principal identifies the holder of a secret credential.
type Principal int

const (
	// PrincipalVaultUser is the day-to-day user unlocking the vault.
	PrincipalVaultUser Principal = 1

	// PrincipalAdmin is the supervising principal guarding admin settings.
	PrincipalAdmin Principal = 2
)

// String returns the lower-case name of the principal.
func (p Principal) String() string {
	switch p {
	case PrincipalVaultUser:
		return "vault_user"
	case PrincipalAdmin:
		return "admin"
	default:
		return fmt.Sprintf("principal(%d)", int(p))
	}
}

// Credential is a configured secret together with the moment it was set.
//
// A principal without a credential is represented by the absence of a
// Credential value (see CredentialStore.GetSecret), never by an empty Secret.
type Credential struct {
	Principal Principal
	Secret    string
	SetAt     time.Time
}

// AgeInDays returns the number of whole days elapsed between SetAt and now.
// A zero SetAt or a SetAt in the future yields 0.
func (c Credential) AgeInDays(now time.Time) int {
	if c.SetAt.IsZero() || now.Before(c.SetAt) {
		return 0
	}
	return int(now.Sub(c.SetAt) / (24 * time.Hour))
}
