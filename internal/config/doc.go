// Package config provides configuration loading, merging, and validation
// facilities for vault-gate.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables (prefixed with VAULTGATE_)
//  2. Command-line flags
//  3. JSON or TOML config file
//
// Remaining zero values receive defaults. The entry point is
// [GetStructuredConfig].
package config
