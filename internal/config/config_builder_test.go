package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder_FailsWithoutMasterKey verifies that defaults alone
// do not satisfy validation.
func TestBuild_EmptyBuilder_FailsWithoutMasterKey(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	require.NotNil(t, cfg)
}

// TestBuild_AppliesDefaults verifies that zero fields receive defaults.
func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{App: App{MasterKey: "k"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultVaultDir, cfg.Storage.Media.VaultDir)
	assert.Equal(t, DefaultLogFile, cfg.App.LogFile)
	assert.Equal(t, DefaultLockoutPollInterval, cfg.Workers.LockoutPollInterval)
	assert.Equal(t, DefaultAuditPruneInterval, cfg.Workers.AuditPruneInterval)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{MasterKey: "secret"}},
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "/tmp/vault.db"}}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.App.MasterKey)
	assert.Equal(t, "/tmp/vault.db", cfg.Storage.DB.DSN)
}

// TestBuild_FirstSourceWins verifies that an earlier non-zero value is not
// overwritten by a later source.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{MasterKey: "env"}},
		&StructuredConfig{App: App{MasterKey: "flag"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.App.MasterKey)
}

// TestBuild_RejectsNegativeIntervals verifies worker validation.
func TestBuild_RejectsNegativeIntervals(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		App:     App{MasterKey: "k"},
		Workers: Workers{LockoutPollInterval: -time.Second},
	})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("VAULTGATE_APP_MASTER_KEY", "env-key")
	t.Setenv("VAULTGATE_STORAGE_DB_DSN", "env.db")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-key", b.configs[0].App.MasterKey)
	assert.Equal(t, "env.db", b.configs[0].Storage.DB.DSN)
}

// TestWithEnv_SetsErrorOnBadDuration verifies that conversion failures are
// collected into b.err.
func TestWithEnv_SetsErrorOnBadDuration(t *testing.T) {
	t.Setenv("VAULTGATE_WORKERS_LOCKOUT_POLL_INTERVAL", "soon")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_ReturnsBuilder verifies the fluent interface.
func TestWithFlags_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	assert.Len(t, b.configs, 1)
}

// TestWithFlags_SetsErrorOnUnknownFlag verifies that parse errors are kept.
func TestWithFlags_SetsErrorOnUnknownFlag(t *testing.T) {
	b := newConfigBuilder()
	b.withFlags([]string{"-no-such-flag"})
	assert.Error(t, b.err)
}

// ── withFile ──────────────────────────────────────────────────────────────────

// TestWithFile_NoOp_WhenNoPathSet verifies that withFile does nothing when
// no config has a ConfigFilePath.
func TestWithFile_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withFile()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithFile_AppendsJSONConfig verifies that a valid JSON file is parsed
// and appended.
func TestWithFile_AppendsJSONConfig(t *testing.T) {
	payload := StructuredFileConfig{}
	payload.App.MasterKey = "json-key"
	payload.Storage.DB.DSN = "json.db"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{ConfigFilePath: path})
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-key", b.configs[1].App.MasterKey)
	assert.Equal(t, "json.db", b.configs[1].Storage.DB.DSN)
}

// TestWithFile_AppendsTOMLConfig verifies that the .toml extension selects
// the TOML decoder.
func TestWithFile_AppendsTOMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app]\nmaster_key = \"toml-key\"\n"), 0o600))

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{ConfigFilePath: path})
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "toml-key", b.configs[1].App.MasterKey)
}

// TestWithFile_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithFile_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		ConfigFilePath: "/nonexistent/config.json",
	})
	b.withFile()

	assert.Error(t, b.err)
}

// TestWithFile_UsesLastPath verifies that when multiple configs have a
// ConfigFilePath, the last non-empty one wins.
func TestWithFile_UsesLastPath(t *testing.T) {
	payload := StructuredFileConfig{}
	payload.App.MasterKey = "last-wins"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{ConfigFilePath: "/nonexistent/first.json"},
		&StructuredConfig{ConfigFilePath: path},
	)
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "last-wins", b.configs[2].App.MasterKey)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_EnvAndFlags verifies the full pipeline.
func TestGetStructuredConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("VAULTGATE_APP_MASTER_KEY", "pipeline")

	cfg, err := GetStructuredConfig([]string{"-d", "flags.db", "-lockout-poll-interval", "250ms"})
	require.NoError(t, err)
	assert.Equal(t, "pipeline", cfg.App.MasterKey)
	assert.Equal(t, "flags.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 250*time.Millisecond, cfg.Workers.LockoutPollInterval)
}
