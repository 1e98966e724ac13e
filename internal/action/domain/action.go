package domain

import "time"

// Priority is the urgency of a remediation action.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the sort rank of the priority; lower sorts first.
// Unknown priorities take the medium rank.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Status is the workflow state of a remediation action.
type Status string

const (
	StatusSuggested  Status = "suggested"
	StatusApproved   Status = "approved"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Rank returns the sort rank of the status; lower sorts first.
// Unknown statuses take the suggested rank.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusApproved:
		return 1
	case StatusSuggested:
		return 2
	case StatusCompleted:
		return 3
	case StatusCancelled:
		return 4
	default:
		return 2
	}
}

// Action is a remediation action owned by an incident.
//
// Human-authored actions are created directly in approved status. AI-authored
// candidates exist only as Suggestions until approved; approval is the only
// path by which one becomes a durable Action.
type Action struct {
	ID             string
	IncidentID     string
	AnalysisID     *string
	Title          string
	Description    string
	Priority       Priority
	Status         Status
	ActionHolder   string
	Deadline       *time.Time
	AISuggested    bool
	ApprovedBy     *string
	ApprovedAt     *time.Time
	CompletedAt    *time.Time
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrgID implements the tenant-scoped resource contract for access checks.
func (a *Action) OrgID() *string { return a.OrganizationID }

// Suggestion is an ephemeral AI-produced remediation candidate, not persisted
// until approved.
type Suggestion struct {
	Title       string
	Description string
	Priority    Priority
}
