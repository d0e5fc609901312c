package adapter

import "errors"

var (
	ErrVaultDirNotSet = errors.New("vault directory is not set")
	ErrWipeIncomplete = errors.New("vault wipe incomplete")
)
