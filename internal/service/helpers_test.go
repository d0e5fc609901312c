package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/vault-gate/internal/mock"
	"github.com/MKhiriev/vault-gate/internal/store"
	"go.uber.org/mock/gomock"
)

var errStorage = errors.New("storage unavailable")

// testStart is 12:00 UTC, inside any daytime access window.
var testStart = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// fakeTime is the mutable time source behind MockClock.
type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeTime) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func newMockClock(ctrl *gomock.Controller, ft *fakeTime) *mock.MockClock {
	clock := mock.NewMockClock(ctrl)
	clock.EXPECT().Now().DoAndReturn(ft.Now).AnyTimes()
	return clock
}

// faultyPrefs wraps a store and fails the selected operations.
type faultyPrefs struct {
	store.PreferenceStore

	mu        sync.Mutex
	failGet   bool
	failWrite bool
}

func (f *faultyPrefs) setFailures(get, write bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet, f.failWrite = get, write
}

func (f *faultyPrefs) failures() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failGet, f.failWrite
}

func (f *faultyPrefs) Get(ctx context.Context, key string) (string, bool, error) {
	if get, _ := f.failures(); get {
		return "", false, errStorage
	}
	return f.PreferenceStore.Get(ctx, key)
}

func (f *faultyPrefs) Set(ctx context.Context, key, value string) error {
	if _, write := f.failures(); write {
		return errStorage
	}
	return f.PreferenceStore.Set(ctx, key, value)
}

func (f *faultyPrefs) Remove(ctx context.Context, keys ...string) error {
	if _, write := f.failures(); write {
		return errStorage
	}
	return f.PreferenceStore.Remove(ctx, keys...)
}

func (f *faultyPrefs) Update(ctx context.Context, fn func(tx store.PreferenceTx) error) error {
	get, write := f.failures()
	if get || write {
		return errStorage
	}
	return f.PreferenceStore.Update(ctx, fn)
}

// testEnv bundles the services over one in-memory store.
type testEnv struct {
	ctrl  *gomock.Controller
	time  *fakeTime
	clock *mock.MockClock
	vault *mock.MockMediaVault
	prefs *faultyPrefs

	credentials CredentialStore
	audit       AuditLog
	permissions PermissionRegistry
	gate        AccessGate
	admin       AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	ft := &fakeTime{now: testStart}
	clock := newMockClock(ctrl, ft)
	prefs := &faultyPrefs{PreferenceStore: store.NewMemoryPreferences()}

	credentials := NewCredentialStore(prefs, clock)
	audit := NewAuditLog(prefs, clock)
	permissions := NewPermissionRegistry(prefs)
	gate := NewAccessGate(prefs, audit, clock)

	return &testEnv{
		ctrl:        ctrl,
		time:        ft,
		clock:       clock,
		vault:       mock.NewMockMediaVault(ctrl),
		prefs:       prefs,
		credentials: credentials,
		audit:       audit,
		permissions: permissions,
		gate:        gate,
		admin:       NewAdminService(credentials, permissions, gate, audit, clock),
	}
}

func (e *testEnv) newSession() AuthSessionController {
	return NewAuthSessionController(AuthSessionDeps{
		Credentials: e.credentials,
		Audit:       e.audit,
		Permissions: e.permissions,
		Gate:        e.gate,
		Vault:       e.vault,
		Clock:       e.clock,
	})
}

func descriptions(t *testing.T, audit AuditLog) []string {
	t.Helper()

	entries, err := audit.Entries(context.Background())
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Description)
	}
	return out
}
