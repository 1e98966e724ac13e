package audit

import (
	"context"
	"errors"
	"testing"

	"fieldsafe/backend/internal/audit/domain"
)

// mockAuditRepo captures created entries for assertions.
type mockAuditRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (m *mockAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockAuditRepo) ListByResource(ctx context.Context, resourceType, resourceID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return m.entries, m.err
}

func TestLogEvent_PersistsEntry(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), "user-1", "action.status_changed", "incident_action", "a1", "approved -> completed")

	if len(repo.entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry ID should be set")
	}
	if e.ActorID != "user-1" || e.Action != "action.status_changed" || e.ResourceID != "a1" {
		t.Errorf("entry = %+v, want recorded fields", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestLogEvent_BestEffortOnRepoError(t *testing.T) {
	repo := &mockAuditRepo{err: errors.New("db down")}
	l := NewLogger(repo)

	// Must not panic or propagate the error.
	l.LogEvent(context.Background(), "user-1", "rule.created", "notification_rule", "r1", "")
}

func TestLogEvent_NilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.LogEvent(context.Background(), "user-1", "noop", "x", "y", "")
}
