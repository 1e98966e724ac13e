// Package audit writes an append-only trail of workflow transitions and rule changes.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"fieldsafe/backend/internal/audit/domain"
	auditrepo "fieldsafe/backend/internal/audit/repository"
)

// Recorder writes a single audit event. Used by the action workflow and
// notification rule write paths. LogEvent is best-effort: failures are logged
// and do not affect the caller.
type Recorder interface {
	LogEvent(ctx context.Context, actorID, action, resourceType, resourceID, detail string)
}

// Logger implements Recorder using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Recorder that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, actorID, action, resourceType, resourceID, detail string) {
	if l == nil || l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:           uuid.New().String(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		CreatedAt:    time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resourceID, err)
	}
}
