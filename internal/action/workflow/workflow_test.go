package workflow

import (
	"testing"
	"time"

	"fieldsafe/backend/internal/action/domain"
)

func TestSort_PriorityDominatesStatus(t *testing.T) {
	actions := []*domain.Action{
		{ID: "a", Priority: domain.PriorityLow, Status: domain.StatusSuggested},
		{ID: "b", Priority: domain.PriorityUrgent, Status: domain.StatusCompleted},
		{ID: "c", Priority: domain.PriorityHigh, Status: domain.StatusInProgress},
	}

	Sort(actions)

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if actions[i].ID != id {
			t.Fatalf("order[%d] = %s, want %s (got %v)", i, actions[i].ID, id, ids(actions))
		}
	}
}

func TestSort_StatusBreaksTies(t *testing.T) {
	actions := []*domain.Action{
		{ID: "cancelled", Priority: domain.PriorityHigh, Status: domain.StatusCancelled},
		{ID: "completed", Priority: domain.PriorityHigh, Status: domain.StatusCompleted},
		{ID: "in_progress", Priority: domain.PriorityHigh, Status: domain.StatusInProgress},
		{ID: "suggested", Priority: domain.PriorityHigh, Status: domain.StatusSuggested},
		{ID: "approved", Priority: domain.PriorityHigh, Status: domain.StatusApproved},
	}

	Sort(actions)

	want := []string{"in_progress", "approved", "suggested", "completed", "cancelled"}
	for i, id := range want {
		if actions[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(actions), want)
		}
	}
}

func TestSort_UnknownRanksDefault(t *testing.T) {
	actions := []*domain.Action{
		{ID: "unknown", Priority: domain.Priority("nonsense"), Status: domain.Status("mystery")},
		{ID: "medium", Priority: domain.PriorityMedium, Status: domain.StatusSuggested},
		{ID: "urgent", Priority: domain.PriorityUrgent, Status: domain.StatusCancelled},
		{ID: "low", Priority: domain.PriorityLow, Status: domain.StatusInProgress},
	}

	Sort(actions)

	// Unknown priority ranks as medium, unknown status as suggested: the
	// unknown action ties with the medium/suggested one, and stable sort
	// keeps input order within the tie.
	want := []string{"urgent", "unknown", "medium", "low"}
	for i, id := range want {
		if actions[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(actions), want)
		}
	}
}

func TestSort_Stable(t *testing.T) {
	actions := []*domain.Action{
		{ID: "first", Priority: domain.PriorityHigh, Status: domain.StatusApproved},
		{ID: "second", Priority: domain.PriorityHigh, Status: domain.StatusApproved},
		{ID: "third", Priority: domain.PriorityHigh, Status: domain.StatusApproved},
	}

	Sort(actions)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if actions[i].ID != id {
			t.Fatalf("equal actions reordered: %v", ids(actions))
		}
	}
}

func TestApplyStatus_CompleteSetsCompletedAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &domain.Action{Status: domain.StatusInProgress}

	ApplyStatus(a, domain.StatusCompleted, "user-1", now)

	if a.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", a.Status)
	}
	if a.CompletedAt == nil || !a.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", a.CompletedAt, now)
	}
}

func TestApplyStatus_ReopenClearsCompletedAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &domain.Action{Status: domain.StatusInProgress}

	ApplyStatus(a, domain.StatusCompleted, "user-1", now)
	ApplyStatus(a, domain.StatusApproved, "user-1", now.Add(time.Hour))

	if a.Status != domain.StatusApproved {
		t.Errorf("Status = %q, want approved", a.Status)
	}
	if a.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil after reopen", a.CompletedAt)
	}
}

func TestApplyStatus_ApproveSuggestedStampsApproval(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &domain.Action{Status: domain.StatusSuggested}

	ApplyStatus(a, domain.StatusApproved, "approver-1", now)

	if a.ApprovedBy == nil || *a.ApprovedBy != "approver-1" {
		t.Errorf("ApprovedBy = %v, want approver-1", a.ApprovedBy)
	}
	if a.ApprovedAt == nil || !a.ApprovedAt.Equal(now) {
		t.Errorf("ApprovedAt = %v, want %v", a.ApprovedAt, now)
	}
}

func TestApplyStatus_ApprovedToInProgressNoApprovalStamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &domain.Action{Status: domain.StatusApproved}

	ApplyStatus(a, domain.StatusInProgress, "user-1", now)

	if a.ApprovedBy != nil {
		t.Errorf("ApprovedBy = %v, want nil (stamp only on suggested -> approved)", a.ApprovedBy)
	}
}

func TestApplyStatus_CancelledIsNotLocked(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &domain.Action{Status: domain.StatusCancelled}

	ApplyStatus(a, domain.StatusInProgress, "user-1", now)

	if a.Status != domain.StatusInProgress {
		t.Errorf("Status = %q, want in_progress (no terminal lock)", a.Status)
	}
}

func TestApproveSuggestion_CreatesApprovedAction(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orgID := "org-1"
	analysisID := "an-1"

	a := ApproveSuggestion("inc-1", &analysisID, domain.Suggestion{
		Title: "Replace damaged cable", Description: "Section 4", Priority: domain.PriorityHigh,
	}, &orgID, "approver-1", now)

	if a.ID == "" {
		t.Error("ID should be set")
	}
	if a.Status != domain.StatusApproved {
		t.Errorf("Status = %q, want approved", a.Status)
	}
	if !a.AISuggested {
		t.Error("AISuggested should be true")
	}
	if a.ApprovedBy == nil || *a.ApprovedBy != "approver-1" {
		t.Errorf("ApprovedBy = %v, want approver-1", a.ApprovedBy)
	}
	if a.ApprovedAt == nil || !a.ApprovedAt.Equal(now) {
		t.Errorf("ApprovedAt = %v, want %v", a.ApprovedAt, now)
	}
	if a.IncidentID != "inc-1" || a.AnalysisID == nil || *a.AnalysisID != "an-1" {
		t.Errorf("ownership fields wrong: %+v", a)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	cases := []struct {
		name     string
		deadline *time.Time
		status   domain.Status
		want     bool
	}{
		{"no deadline", nil, domain.StatusInProgress, false},
		{"past deadline open", &past, domain.StatusInProgress, true},
		{"past deadline approved", &past, domain.StatusApproved, true},
		{"past deadline completed", &past, domain.StatusCompleted, false},
		{"past deadline cancelled", &past, domain.StatusCancelled, false},
		{"future deadline", &future, domain.StatusInProgress, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &domain.Action{Deadline: tc.deadline, Status: tc.status}
			if got := Overdue(a, now); got != tc.want {
				t.Errorf("Overdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func ids(actions []*domain.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}
