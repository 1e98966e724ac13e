package domain

import "time"

// AuditLog records one change to a tracked resource: who did what to which record.
type AuditLog struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Detail       string
	CreatedAt    time.Time
}
