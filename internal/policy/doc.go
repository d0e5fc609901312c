// Package policy holds the pure decision functions of the vault gate:
// lockout escalation, the daily access window and check-in deadlines.
//
// Nothing here reads a clock or a store; callers pass "now" and the
// persisted state in.
package policy
