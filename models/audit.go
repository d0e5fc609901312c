package models

import "time"

// AuditEntry is a single immutable record in the access log.
type AuditEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}
