// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the access-control core to the outside world.
//
// [FileMediaVault] implements [service.MediaVault] over a directory on the
// local file system: the protected media collection lives there as regular
// files, and wiping the vault removes them.
package adapter

import "github.com/MKhiriev/vault-gate/internal/service"

var _ service.MediaVault = (*FileMediaVault)(nil)
