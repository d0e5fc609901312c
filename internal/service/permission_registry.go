package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/policy"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/models"
)

type permissionRegistry struct {
	prefs store.PreferenceStore
}

// NewPermissionRegistry returns a [PermissionRegistry] over prefs.
func NewPermissionRegistry(prefs store.PreferenceStore) PermissionRegistry {
	return &permissionRegistry{prefs: prefs}
}

// Role returns the configured role. A device that was never configured runs
// as Admin; an unrecognised stored value is treated as Controlled.
func (p *permissionRegistry) Role(ctx context.Context) (models.Role, error) {
	raw, ok, err := p.prefs.Get(ctx, store.KeyUserRole)
	if err != nil {
		return 0, fmt.Errorf("read role: %w", err)
	}
	if !ok {
		return models.RoleAdmin, nil
	}

	role, known := models.ParseRole(raw)
	if !known {
		logger.FromContext(ctx).Warn().
			Str("func", "permissionRegistry.Role").
			Str("stored", raw).
			Msg("unknown role, using controlled")
		return models.RoleControlled, nil
	}
	return role, nil
}

func (p *permissionRegistry) SetRole(ctx context.Context, role models.Role) error {
	if _, ok := models.ParseRole(role.String()); !ok {
		return fmt.Errorf("%w: unknown role %s", ErrConfiguration, role)
	}
	if err := p.prefs.Set(ctx, store.KeyUserRole, role.String()); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// Capabilities returns the explicitly configured flags. A malformed flag
// counts as a restriction.
func (p *permissionRegistry) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	get := storeGetter(ctx, p.prefs)
	caps := make(models.CapabilitySet, len(models.AllActions))

	for _, action := range models.AllActions {
		allowed, ok, err := readBool(get, store.KeyCapability(action))
		if err != nil && !ok {
			return nil, fmt.Errorf("read capability %s: %w", action, err)
		}
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).
				Str("func", "permissionRegistry.Capabilities").
				Stringer("action", action).
				Msg("malformed capability flag, denying")
			caps[action] = false
			continue
		}
		if ok {
			caps[action] = allowed
		}
	}

	return caps, nil
}

func (p *permissionRegistry) SetCapability(ctx context.Context, action models.Action, allowed bool) error {
	if err := p.prefs.Set(ctx, store.KeyCapability(action), strconv.FormatBool(allowed)); err != nil {
		return fmt.Errorf("set capability %s: %w", action, err)
	}
	return nil
}

func (p *permissionRegistry) IsAllowed(ctx context.Context, action models.Action) (bool, error) {
	role, err := p.Role(ctx)
	if err != nil {
		return false, err
	}
	if role == models.RoleAdmin {
		return true, nil
	}

	caps, err := p.Capabilities(ctx)
	if err != nil {
		return false, err
	}
	return policy.Capability(role, caps, action), nil
}
