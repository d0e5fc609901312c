package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/policy"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/models"
)

// DefaultCheckInIntervalHours applies when check-in is enabled without an
// interval.
const DefaultCheckInIntervalHours = 24

type accessGate struct {
	prefs store.PreferenceStore
	audit AuditLog
	clock Clock
}

// NewAccessGate returns an [AccessGate] over prefs.
func NewAccessGate(prefs store.PreferenceStore, audit AuditLog, clock Clock) AccessGate {
	return &accessGate{prefs: prefs, audit: audit, clock: clock}
}

func (g *accessGate) Window(ctx context.Context) models.AccessWindow {
	window, err := g.readWindow(ctx)
	if err != nil {
		g.logConfigurationError(ctx, "accessGate.Window", err)
		return models.AccessWindow{}
	}
	return window
}

// readWindow returns the stored window. The bounds are kept while the window
// is disabled; bounds that cannot be read only matter once it is enabled.
func (g *accessGate) readWindow(ctx context.Context) (models.AccessWindow, error) {
	get := storeGetter(ctx, g.prefs)

	enabled, _, err := readBool(get, store.KeyAccessWindowEnabled)
	if err != nil {
		return models.AccessWindow{}, err
	}

	window, err := readWindowBounds(get)
	if err != nil {
		if !enabled {
			return models.AccessWindow{}, nil
		}
		return models.AccessWindow{}, err
	}
	window.Enabled = enabled
	return window, nil
}

func readWindowBounds(get getFunc) (models.AccessWindow, error) {
	start, startOK, err := readInt(get, store.KeyAccessWindowStart)
	if err != nil {
		return models.AccessWindow{}, err
	}
	end, endOK, err := readInt(get, store.KeyAccessWindowEnd)
	if err != nil {
		return models.AccessWindow{}, err
	}
	if !startOK || !endOK {
		return models.AccessWindow{}, errors.New("access window bounds are not set")
	}

	window := models.AccessWindow{StartMinute: start, EndMinute: end}
	if !window.Valid() {
		return models.AccessWindow{}, fmt.Errorf("access window %d-%d out of range", start, end)
	}
	return window, nil
}

func (g *accessGate) SetWindow(ctx context.Context, window models.AccessWindow) error {
	if !window.Valid() {
		return fmt.Errorf("%w: access window %d-%d out of range", ErrConfiguration, window.StartMinute, window.EndMinute)
	}

	err := g.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		if err := tx.Set(store.KeyAccessWindowEnabled, strconv.FormatBool(window.Enabled)); err != nil {
			return err
		}
		if err := tx.Set(store.KeyAccessWindowStart, strconv.Itoa(window.StartMinute)); err != nil {
			return err
		}
		return tx.Set(store.KeyAccessWindowEnd, strconv.Itoa(window.EndMinute))
	})
	if err != nil {
		return fmt.Errorf("set access window: %w", err)
	}
	return nil
}

func (g *accessGate) IsWithinWindow(ctx context.Context) bool {
	return policy.IsWithinWindow(g.clock.Now(), g.Window(ctx))
}

func (g *accessGate) CheckIn(ctx context.Context) models.CheckInState {
	state, err := g.readCheckIn(ctx)
	if err != nil {
		g.logConfigurationError(ctx, "accessGate.CheckIn", err)
		return models.CheckInState{}
	}
	return state
}

func (g *accessGate) readCheckIn(ctx context.Context) (models.CheckInState, error) {
	get := storeGetter(ctx, g.prefs)

	required, _, err := readBool(get, store.KeyCheckInRequired)
	if err != nil {
		return models.CheckInState{}, err
	}

	interval, ok, err := readInt(get, store.KeyCheckInInterval)
	if err != nil {
		return models.CheckInState{}, err
	}
	if !ok {
		interval = DefaultCheckInIntervalHours
	}
	if interval <= 0 {
		return models.CheckInState{}, fmt.Errorf("check-in interval %d is not positive", interval)
	}

	last, _, err := readTime(get, store.KeyCheckInLast)
	if err != nil {
		return models.CheckInState{}, err
	}

	return models.CheckInState{Required: required, IntervalHours: interval, LastConfirmed: last}, nil
}

func (g *accessGate) SetCheckIn(ctx context.Context, state models.CheckInState) error {
	if state.IntervalHours <= 0 {
		return fmt.Errorf("%w: check-in interval must be positive", ErrConfiguration)
	}

	err := g.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		if err := tx.Set(store.KeyCheckInRequired, strconv.FormatBool(state.Required)); err != nil {
			return err
		}
		if err := tx.Set(store.KeyCheckInInterval, strconv.Itoa(state.IntervalHours)); err != nil {
			return err
		}
		if state.LastConfirmed.IsZero() {
			return tx.Remove(store.KeyCheckInLast)
		}
		return tx.Set(store.KeyCheckInLast, formatTime(state.LastConfirmed))
	})
	if err != nil {
		return fmt.Errorf("set check-in: %w", err)
	}
	return nil
}

func (g *accessGate) IsCheckInOverdue(ctx context.Context) bool {
	return policy.IsOverdue(g.clock.Now(), g.CheckIn(ctx))
}

func (g *accessGate) ConfirmCheckIn(ctx context.Context) (models.CheckInState, error) {
	state := policy.Confirm(g.CheckIn(ctx), g.clock.Now())

	if err := g.prefs.Set(ctx, store.KeyCheckInLast, formatTime(state.LastConfirmed)); err != nil {
		return models.CheckInState{}, fmt.Errorf("confirm check-in: %w", err)
	}
	appendAudit(ctx, g.audit, "User performed check-in")

	return state, nil
}

func (g *accessGate) logConfigurationError(ctx context.Context, fn string, err error) {
	logger.FromContext(ctx).Warn().
		Err(fmt.Errorf("%w: %w", ErrConfiguration, err)).
		Str("func", fn).
		Msg("restriction settings unreadable, not restricting")
}
