package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredFileConfig is the on-disk shape of a config file. The same
// struct is decoded from JSON (json tags) and TOML (toml tags).
type StructuredFileConfig struct {
	App struct {
		MasterKey string `json:"master_key" toml:"master_key"`
		LogFile   string `json:"log_file" toml:"log_file"`
	} `json:"app,omitempty" toml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" toml:"dsn"`
		} `json:"db,omitempty" toml:"db"`

		Media struct {
			VaultDir string `json:"vault_dir" toml:"vault_dir"`
		} `json:"media,omitempty" toml:"media"`
	} `json:"storage,omitempty" toml:"storage"`

	Workers struct {
		LockoutPollInterval Duration `json:"lockout_poll_interval" toml:"lockout_poll_interval"`
		AuditPruneInterval  Duration `json:"audit_prune_interval" toml:"audit_prune_interval"`
	} `json:"workers,omitempty" toml:"workers"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var fileCfg StructuredFileConfig
	if err := json.NewDecoder(jsonFile).Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return fileCfg.toStructured(), nil
}

func (f StructuredFileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			MasterKey: f.App.MasterKey,
			LogFile:   f.App.LogFile,
		},
		Storage: Storage{
			DB:    DB{DSN: f.Storage.DB.DSN},
			Media: Media{VaultDir: f.Storage.Media.VaultDir},
		},
		Workers: Workers{
			LockoutPollInterval: time.Duration(f.Workers.LockoutPollInterval),
			AuditPruneInterval:  time.Duration(f.Workers.AuditPruneInterval),
		},
		ConfigFilePath: "",
	}
}

// Duration is a wrapper around time.Duration that supports decoding from
// strings like "1h", "30s" in both JSON and TOML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

// UnmarshalText parses a Go duration string. TOML strings are decoded
// through this method.
func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
