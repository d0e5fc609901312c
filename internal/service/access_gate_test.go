package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessGate_WindowDefaultsToDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, models.AccessWindow{}, env.gate.Window(ctx))
	assert.True(t, env.gate.IsWithinWindow(ctx))
}

func TestAccessGate_SetWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	window := models.AccessWindow{Enabled: true, StartMinute: 22 * 60, EndMinute: 6 * 60}
	require.NoError(t, env.gate.SetWindow(ctx, window))
	assert.Equal(t, window, env.gate.Window(ctx))

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"noon", testStart, false},
		{"late evening", time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC), true},
		{"after midnight", time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC), true},
		{"end minute", time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC), true},
		{"after end", time.Date(2026, 3, 11, 6, 1, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.time.Set(tt.at)
			assert.Equal(t, tt.want, env.gate.IsWithinWindow(ctx))
		})
	}
}

func TestAccessGate_DisabledWindowKeepsBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	window := models.AccessWindow{Enabled: false, StartMinute: 22 * 60, EndMinute: 6 * 60}
	require.NoError(t, env.gate.SetWindow(ctx, window))

	assert.Equal(t, window, env.gate.Window(ctx))
	assert.True(t, env.gate.IsWithinWindow(ctx))
}

func TestAccessGate_SetWindowRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	err := env.gate.SetWindow(context.Background(), models.AccessWindow{Enabled: true, StartMinute: 0, EndMinute: 1440})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAccessGate_MalformedWindowFailsOpen(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"malformed flag", map[string]string{store.KeyAccessWindowEnabled: "yes please"}},
		{"malformed start", map[string]string{
			store.KeyAccessWindowEnabled: "true",
			store.KeyAccessWindowStart:   "eight",
			store.KeyAccessWindowEnd:     "600",
		}},
		{"missing end", map[string]string{
			store.KeyAccessWindowEnabled: "true",
			store.KeyAccessWindowStart:   "480",
		}},
		{"out of range", map[string]string{
			store.KeyAccessWindowEnabled: "true",
			store.KeyAccessWindowStart:   "480",
			store.KeyAccessWindowEnd:     "5000",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			for k, v := range tt.values {
				require.NoError(t, env.prefs.Set(ctx, k, v))
			}

			assert.False(t, env.gate.Window(ctx).Enabled)
			assert.True(t, env.gate.IsWithinWindow(ctx))
		})
	}
}

func TestAccessGate_WindowStorageErrorFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.gate.SetWindow(ctx, models.AccessWindow{Enabled: true, StartMinute: 0, EndMinute: 1}))
	env.prefs.setFailures(true, false)

	assert.True(t, env.gate.IsWithinWindow(ctx))
}

func TestAccessGate_CheckInDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	state := env.gate.CheckIn(ctx)
	assert.False(t, state.Required)
	assert.Equal(t, DefaultCheckInIntervalHours, state.IntervalHours)
	assert.False(t, env.gate.IsCheckInOverdue(ctx))
}

func TestAccessGate_CheckInOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.gate.SetCheckIn(ctx, models.CheckInState{
		Required:      true,
		IntervalHours: 12,
		LastConfirmed: testStart,
	}))
	assert.False(t, env.gate.IsCheckInOverdue(ctx))

	env.time.Advance(12*time.Hour - time.Millisecond)
	assert.False(t, env.gate.IsCheckInOverdue(ctx))

	env.time.Advance(time.Millisecond)
	assert.True(t, env.gate.IsCheckInOverdue(ctx))

	state, err := env.gate.ConfirmCheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, state.LastConfirmed.Equal(testStart.Add(12*time.Hour)))
	assert.False(t, env.gate.IsCheckInOverdue(ctx))
	assert.Equal(t, []string{"User performed check-in"}, descriptions(t, env.audit))
}

func TestAccessGate_MalformedCheckInFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.prefs.Set(ctx, store.KeyCheckInRequired, "true"))
	require.NoError(t, env.prefs.Set(ctx, store.KeyCheckInInterval, "0"))
	assert.False(t, env.gate.IsCheckInOverdue(ctx))

	require.NoError(t, env.prefs.Set(ctx, store.KeyCheckInInterval, "1"))
	require.NoError(t, env.prefs.Set(ctx, store.KeyCheckInLast, "not a time"))
	assert.False(t, env.gate.IsCheckInOverdue(ctx))
}

func TestAccessGate_SetCheckInRejectsInterval(t *testing.T) {
	env := newTestEnv(t)

	err := env.gate.SetCheckIn(context.Background(), models.CheckInState{Required: true, IntervalHours: 0})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAccessGate_ConfirmCheckInStorageError(t *testing.T) {
	env := newTestEnv(t)
	env.prefs.setFailures(false, true)

	_, err := env.gate.ConfirmCheckIn(context.Background())
	assert.ErrorIs(t, err, errStorage)
}
