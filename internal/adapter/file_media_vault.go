package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/vault-gate/internal/config"
	"github.com/MKhiriev/vault-gate/internal/logger"
)

// FileMediaVault keeps the vault media as files under one directory.
type FileMediaVault struct {
	dir    string
	logger *logger.Logger
}

// NewFileMediaVault creates the vault directory (0700) if it does not exist.
func NewFileMediaVault(cfg config.Media, log *logger.Logger) (*FileMediaVault, error) {
	if cfg.VaultDir == "" {
		return nil, ErrVaultDirNotSet
	}
	if err := os.MkdirAll(cfg.VaultDir, 0o700); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	return &FileMediaVault{dir: cfg.VaultDir, logger: log}, nil
}

// Dir returns the vault directory.
func (v *FileMediaVault) Dir() string {
	return v.dir
}

// WipeAllImages removes every regular file in the vault directory, including
// files in nested directories. The directory tree itself is kept. Every file
// is attempted even when some removals fail.
func (v *FileMediaVault) WipeAllImages(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var (
		removed int
		errs    []error
	)
	walkErr := filepath.WalkDir(v.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if err = os.Remove(path); err != nil {
			errs = append(errs, err)
			return nil
		}
		removed++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	if len(errs) > 0 {
		log.Error().Str("func", "FileMediaVault.WipeAllImages").
			Int("removed", removed).
			Int("failed", len(errs)).
			Msg("vault wipe incomplete")
		return fmt.Errorf("%w: %w", ErrWipeIncomplete, errors.Join(errs...))
	}

	log.Info().Str("func", "FileMediaVault.WipeAllImages").Int("removed", removed).Msg("vault media wiped")
	return nil
}
