// Package workflow holds the state machine and ordering rules for incident
// remediation actions. All functions are pure; persistence and access checks
// live in the service layer.
package workflow

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"fieldsafe/backend/internal/action/domain"
)

// Sort orders actions by (priority rank, status rank) ascending, stable.
// Priority dominates status: an urgent completed action sorts before a high
// in-progress one.
func Sort(actions []*domain.Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		pi, pj := actions[i].Priority.Rank(), actions[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		return actions[i].Status.Rank() < actions[j].Status.Rank()
	})
}

// ApplyStatus transitions the action to newStatus, maintaining the timestamp
// invariants:
//
//   - suggested -> approved stamps ApprovedBy/ApprovedAt
//   - any -> completed stamps CompletedAt
//   - completed -> any non-completed clears CompletedAt (reopen)
//
// Completed and cancelled are not hard-locked terminal states: later edits
// remain possible, matching the platform's permissive behavior.
func ApplyStatus(a *domain.Action, newStatus domain.Status, by string, now time.Time) {
	if a.Status == domain.StatusSuggested && newStatus == domain.StatusApproved {
		a.ApprovedBy = &by
		approvedAt := now
		a.ApprovedAt = &approvedAt
	}
	if newStatus == domain.StatusCompleted && a.Status != domain.StatusCompleted {
		completedAt := now
		a.CompletedAt = &completedAt
	}
	if a.Status == domain.StatusCompleted && newStatus != domain.StatusCompleted {
		a.CompletedAt = nil
	}
	a.Status = newStatus
	a.UpdatedAt = now
}

// ApproveSuggestion materializes an AI-authored candidate as a durable action
// in approved status, stamped with the approving identity. This is the only
// path by which a suggestion becomes a record.
func ApproveSuggestion(incidentID string, analysisID *string, s domain.Suggestion, orgID *string, by string, now time.Time) *domain.Action {
	approvedAt := now
	return &domain.Action{
		ID:             uuid.NewString(),
		IncidentID:     incidentID,
		AnalysisID:     analysisID,
		Title:          s.Title,
		Description:    s.Description,
		Priority:       s.Priority,
		Status:         domain.StatusApproved,
		AISuggested:    true,
		ApprovedBy:     &by,
		ApprovedAt:     &approvedAt,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Overdue reports whether the action's deadline has passed while the action is
// still open. The deadline passing never transitions state; overdue is a
// read-time computation.
func Overdue(a *domain.Action, now time.Time) bool {
	if a.Deadline == nil {
		return false
	}
	if a.Status == domain.StatusCompleted || a.Status == domain.StatusCancelled {
		return false
	}
	return a.Deadline.Before(now)
}
