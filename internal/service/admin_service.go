package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/validators"
	"github.com/MKhiriev/vault-gate/models"
)

var capabilityPhrases = map[models.Action]string{
	models.ActionAdd:          "adding images",
	models.ActionDelete:       "deleting images",
	models.ActionEdit:         "editing images",
	models.ActionShare:        "sharing images",
	models.ActionChangeOwnPin: "changing user PIN",
}

type adminService struct {
	credentials CredentialStore
	permissions PermissionRegistry
	gate        AccessGate
	audit       AuditLog
	clock       Clock
	validator   validators.Validator
}

// NewAdminService returns an [AdminService] guarding the admin settings.
func NewAdminService(
	credentials CredentialStore,
	permissions PermissionRegistry,
	gate AccessGate,
	audit AuditLog,
	clock Clock,
) AdminService {
	return &adminService{
		credentials: credentials,
		permissions: permissions,
		gate:        gate,
		audit:       audit,
		clock:       clock,
		validator:   validators.NewAdminPinValidator(),
	}
}

func (a *adminService) Authorize(ctx context.Context, adminPin string) (AdminSession, error) {
	log := logger.FromContext(ctx)

	configured, err := a.credentials.HasSecret(ctx, models.PrincipalAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdminAuthFailed, err)
	}

	if configured {
		ok, err := a.credentials.Matches(ctx, models.PrincipalAdmin, adminPin)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAdminAuthFailed, err)
		}
		if !ok {
			appendAudit(ctx, a.audit, "Failed admin PIN attempt")
			log.Info().Str("func", "adminService.Authorize").Msg("admin PIN rejected")
			return nil, ErrAdminAuthFailed
		}
	}

	appendAudit(ctx, a.audit, "Admin settings accessed")
	log.Info().Str("func", "adminService.Authorize").Bool("pin_configured", configured).Msg("admin session opened")

	return &adminSession{adminService: a}, nil
}

type adminSession struct {
	*adminService
}

func (s *adminSession) Settings(ctx context.Context) (models.AdminSettings, error) {
	hasPin, err := s.credentials.HasSecret(ctx, models.PrincipalAdmin)
	if err != nil {
		return models.AdminSettings{}, err
	}
	role, err := s.permissions.Role(ctx)
	if err != nil {
		return models.AdminSettings{}, err
	}
	caps, err := s.permissions.Capabilities(ctx)
	if err != nil {
		return models.AdminSettings{}, err
	}

	return models.AdminSettings{
		HasAdminPin:  hasPin,
		Role:         role,
		Capabilities: caps,
		AccessWindow: s.gate.Window(ctx),
		CheckIn:      s.gate.CheckIn(ctx),
	}, nil
}

// SetAdminPin sets or replaces the admin PIN. Replacing an existing PIN
// requires the current one.
func (s *adminSession) SetAdminPin(ctx context.Context, currentPin, newPin, confirmPin string) error {
	configured, err := s.credentials.HasSecret(ctx, models.PrincipalAdmin)
	if err != nil {
		return err
	}
	if configured {
		ok, err := s.credentials.Matches(ctx, models.PrincipalAdmin, currentPin)
		if err != nil {
			return err
		}
		if !ok {
			appendAudit(ctx, s.audit, "Failed admin PIN attempt")
			return ErrAuthMismatch
		}
	}

	if err = s.validator.Validate(ctx, newPin); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if newPin != confirmPin {
		return ErrPinMismatch
	}

	if err = s.credentials.SetSecret(ctx, models.PrincipalAdmin, newPin); err != nil {
		return err
	}
	appendAudit(ctx, s.audit, "Admin PIN was set/changed")

	return nil
}

func (s *adminSession) SetRole(ctx context.Context, role models.Role) error {
	previous, err := s.permissions.Role(ctx)
	if err != nil {
		return err
	}
	if err = s.permissions.SetRole(ctx, role); err != nil {
		return err
	}
	if previous != role {
		appendAudit(ctx, s.audit, "Admin changed user role to "+role.String())
	}
	return nil
}

func (s *adminSession) SetCapability(ctx context.Context, action models.Action, allowed bool) error {
	phrase, ok := capabilityPhrases[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %s", ErrConfiguration, action)
	}
	if err := s.permissions.SetCapability(ctx, action, allowed); err != nil {
		return err
	}

	verb := "denied"
	if allowed {
		verb = "allowed"
	}
	appendAudit(ctx, s.audit, "Admin "+verb+" "+phrase)

	return nil
}

func (s *adminSession) SetAccessWindow(ctx context.Context, window models.AccessWindow) error {
	previous := s.gate.Window(ctx)

	if err := s.gate.SetWindow(ctx, window); err != nil {
		return err
	}

	if previous.Enabled != window.Enabled {
		appendAudit(ctx, s.audit, "Admin "+enabledVerb(window.Enabled)+" access restrictions")
	}
	if previous.StartMinute != window.StartMinute {
		appendAudit(ctx, s.audit, "Admin set access start time to "+models.FormatMinuteOfDay(window.StartMinute))
	}
	if previous.EndMinute != window.EndMinute {
		appendAudit(ctx, s.audit, "Admin set access end time to "+models.FormatMinuteOfDay(window.EndMinute))
	}

	return nil
}

// SetCheckIn configures the check-in requirement. Enabling it for the first
// time starts the interval now rather than treating the device as overdue.
func (s *adminSession) SetCheckIn(ctx context.Context, required bool, intervalHours int) error {
	if intervalHours <= 0 {
		return fmt.Errorf("%w: check-in interval must be positive", ErrConfiguration)
	}

	previous := s.gate.CheckIn(ctx)
	next := models.CheckInState{
		Required:      required,
		IntervalHours: intervalHours,
		LastConfirmed: previous.LastConfirmed,
	}
	if required && next.LastConfirmed.IsZero() {
		next.LastConfirmed = s.clock.Now()
	}

	if err := s.gate.SetCheckIn(ctx, next); err != nil {
		return err
	}

	if previous.Required != required {
		appendAudit(ctx, s.audit, "Admin "+enabledVerb(required)+" check-in requirement")
	}
	if previous.IntervalHours != intervalHours {
		appendAudit(ctx, s.audit, fmt.Sprintf("Admin set check-in interval to %d hours", intervalHours))
	}

	return nil
}

func (s *adminSession) ClearAuditLog(ctx context.Context) error {
	if err := s.audit.Clear(ctx); err != nil {
		return err
	}
	appendAudit(ctx, s.audit, "Admin cleared access log")
	return nil
}

func (s *adminSession) AuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	return s.audit.Entries(ctx)
}

func enabledVerb(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// appendAudit records description. A failing audit write never blocks the
// operation it describes.
func appendAudit(ctx context.Context, audit AuditLog, description string) {
	if err := audit.Append(ctx, description); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "appendAudit").
			Str("description", description).
			Msg("failed to append audit entry")
	}
}
