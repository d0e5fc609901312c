package service

import (
	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/store"
)

// Services aggregates the vault-gate services built over one preference
// store. Sessions created by NewSession share them.
type Services struct {
	Credentials CredentialStore
	AuditLog    AuditLog
	Permissions PermissionRegistry
	AccessGate  AccessGate
	Admin       AdminService
	Countdown   LockoutCountdown

	vault  MediaVault
	clock  Clock
	logger *logger.Logger
}

// NewServices wires the services over storages. A nil clock selects the
// system clock.
func NewServices(storages *store.Storages, vault MediaVault, clock Clock, log *logger.Logger) *Services {
	if clock == nil {
		clock = NewSystemClock()
	}
	if log == nil {
		log = logger.Nop()
	}

	prefs := storages.Preferences
	credentials := NewCredentialStore(prefs, clock)
	audit := NewAuditLog(prefs, clock)
	permissions := NewPermissionRegistry(prefs)
	gate := NewAccessGate(prefs, audit, clock)

	return &Services{
		Credentials: credentials,
		AuditLog:    audit,
		Permissions: permissions,
		AccessGate:  gate,
		Admin:       NewAdminService(credentials, permissions, gate, audit, clock),
		Countdown:   NewLockoutCountdown(),
		vault:       vault,
		clock:       clock,
		logger:      log,
	}
}

// NewSession returns a fresh controller over the shared services. It must be
// entered before use.
func (s *Services) NewSession() AuthSessionController {
	return NewAuthSessionController(AuthSessionDeps{
		Credentials: s.Credentials,
		Audit:       s.AuditLog,
		Permissions: s.Permissions,
		Gate:        s.AccessGate,
		Vault:       s.vault,
		Clock:       s.clock,
		Logger:      s.logger,
	})
}

// Clock returns the clock the services were built with.
func (s *Services) Clock() Clock {
	return s.clock
}
