// Package service wires the action workflow to persistence, access checks,
// and the audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldsafe/backend/internal/access"
	"fieldsafe/backend/internal/action/domain"
	"fieldsafe/backend/internal/action/repository"
	"fieldsafe/backend/internal/action/workflow"
	"fieldsafe/backend/internal/audit"
	identitydomain "fieldsafe/backend/internal/identity/domain"
)

var (
	// ErrActionNotFound is returned when a referenced action does not exist.
	ErrActionNotFound = errors.New("incident action not found")
	// ErrAccessDenied is returned when the actor may not touch the action.
	// Callers decide whether to surface it as forbidden or not-found.
	ErrAccessDenied = errors.New("access denied")
)

// Service governs every action create/update in the incident module.
type Service struct {
	repo   repository.Repository
	policy access.Policy
	audit  audit.Recorder
	now    func() time.Time
}

// NewService returns an action workflow service. recorder may be nil to disable the audit trail.
func NewService(repo repository.Repository, policy access.Policy, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = (*audit.Logger)(nil)
	}
	return &Service{repo: repo, policy: policy, audit: recorder, now: time.Now}
}

// CreateInput holds the caller-supplied fields for a human-authored action.
type CreateInput struct {
	IncidentID     string
	AnalysisID     *string
	Title          string
	Description    string
	Priority       domain.Priority
	ActionHolder   string
	Deadline       *time.Time
	OrganizationID *string
}

// Create persists a human-authored action. Initial status is approved unless
// the caller needs otherwise; human-authored records never pass through suggested.
func (s *Service) Create(ctx context.Context, actor identitydomain.Actor, in CreateInput) (*domain.Action, error) {
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	now := s.now().UTC()
	a := &domain.Action{
		ID:             uuid.NewString(),
		IncidentID:     in.IncidentID,
		AnalysisID:     in.AnalysisID,
		Title:          in.Title,
		Description:    in.Description,
		Priority:       in.Priority,
		Status:         domain.StatusApproved,
		ActionHolder:   in.ActionHolder,
		Deadline:       in.Deadline,
		OrganizationID: in.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if a.Priority == "" {
		a.Priority = domain.PriorityMedium
	}
	if !s.policy.CanMutate(actor, a) {
		return nil, ErrAccessDenied
	}
	if err := s.repo.CreateAction(ctx, a); err != nil {
		return nil, fmt.Errorf("create action: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "action.created", "incident_action", a.ID, string(a.Status))
	return a, nil
}

// ApproveSuggestion persists an AI-authored candidate as an approved action.
// Suggestions are ephemeral; this is the only path making one durable.
func (s *Service) ApproveSuggestion(ctx context.Context, actor identitydomain.Actor, incidentID string, analysisID *string, sug domain.Suggestion, orgID *string) (*domain.Action, error) {
	if sug.Title == "" {
		return nil, errors.New("suggestion title is required")
	}
	a := workflow.ApproveSuggestion(incidentID, analysisID, sug, orgID, actor.ID, s.now().UTC())
	if !s.policy.CanMutate(actor, a) {
		return nil, ErrAccessDenied
	}
	if err := s.repo.CreateAction(ctx, a); err != nil {
		return nil, fmt.Errorf("approve suggestion: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "action.suggestion_approved", "incident_action", a.ID, sug.Title)
	return a, nil
}

// UpdateStatus transitions the action to newStatus per the workflow rules.
func (s *Service) UpdateStatus(ctx context.Context, actor identitydomain.Actor, actionID string, newStatus domain.Status) (*domain.Action, error) {
	a, err := s.repo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("load action: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	if !s.policy.CanMutate(actor, a) {
		return nil, ErrAccessDenied
	}

	from := a.Status
	workflow.ApplyStatus(a, newStatus, actor.ID, s.now().UTC())
	if err := s.repo.UpdateAction(ctx, a); err != nil {
		return nil, fmt.Errorf("update action: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "action.status_changed", "incident_action", a.ID,
		fmt.Sprintf("%s -> %s", from, newStatus))
	return a, nil
}

// ListByIncident returns the incident's actions the actor may view, in
// workflow order. A denied item is filtered out, never an error.
func (s *Service) ListByIncident(ctx context.Context, actor identitydomain.Actor, incidentID string) ([]*domain.Action, error) {
	actions, err := s.repo.ListActionsByIncident(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	actions = access.FilterViewable(s.policy, actor, actions)
	workflow.Sort(actions)
	return actions, nil
}

// Delete removes the action explicitly. There is no cascade from incident deletion.
func (s *Service) Delete(ctx context.Context, actor identitydomain.Actor, actionID string) error {
	a, err := s.repo.GetActionByID(ctx, actionID)
	if err != nil {
		return fmt.Errorf("load action: %w", err)
	}
	if a == nil {
		return fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	if !s.policy.CanMutate(actor, a) {
		return ErrAccessDenied
	}
	if err := s.repo.DeleteAction(ctx, actionID); err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "action.deleted", "incident_action", actionID, "")
	return nil
}
