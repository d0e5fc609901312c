// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive terminal driver of vault-gate.
//
// It reads PINs and commands from a line-editing prompt, feeds them to an
// auth session, prints the advisory messages, runs the lockout countdown
// while the session is locked out and offers the admin settings once the
// vault is unlocked. Decisions are always taken from session states and
// errors, never from message text.
package client
