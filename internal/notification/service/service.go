// Package service owns the notification rule write path. All configuration
// validation lives here; the router matches without revalidating.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldsafe/backend/internal/access"
	"fieldsafe/backend/internal/audit"
	"fieldsafe/backend/internal/identity/domain"
	notifdomain "fieldsafe/backend/internal/notification/domain"
	"fieldsafe/backend/internal/notification/repository"
)

var (
	// ErrRuleNotFound is returned when a referenced rule does not exist.
	ErrRuleNotFound = errors.New("notification rule not found")
	// ErrAccessDenied is returned when the actor may not touch the rule.
	ErrAccessDenied = errors.New("access denied")
	// ErrNoChannels rejects a rule with an empty channel set.
	ErrNoChannels = errors.New("rule must have at least one channel")
	// ErrInvalidChannel rejects an unknown delivery channel.
	ErrInvalidChannel = errors.New("unknown delivery channel")
	// ErrInvalidRecipientType rejects an unknown recipient type.
	ErrInvalidRecipientType = errors.New("unknown recipient type")
	// ErrInvalidFilter rejects a filter predicate that is neither scalar nor set.
	ErrInvalidFilter = errors.New("invalid filter predicate")
)

// Service validates and persists notification rules and critical-recipient
// subscriptions.
type Service struct {
	repo   repository.Repository
	policy access.Policy
	audit  audit.Recorder
	now    func() time.Time
}

// NewService returns a notification rule service. recorder may be nil to disable the audit trail.
func NewService(repo repository.Repository, policy access.Policy, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = (*audit.Logger)(nil)
	}
	return &Service{repo: repo, policy: policy, audit: recorder, now: time.Now}
}

// RuleInput holds the caller-supplied fields of a rule.
type RuleInput struct {
	Name           string
	RecipientType  notifdomain.RecipientType
	RecipientID    string
	Channels       []notifdomain.Channel
	Filters        notifdomain.Filters
	OrganizationID *string
	Enabled        bool
}

func validateRule(in RuleInput) error {
	if in.Name == "" {
		return errors.New("rule name is required")
	}
	if !in.RecipientType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecipientType, in.RecipientType)
	}
	if in.RecipientID == "" {
		return errors.New("recipient id is required")
	}
	if len(in.Channels) == 0 {
		return ErrNoChannels
	}
	for _, ch := range in.Channels {
		if !ch.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidChannel, ch)
		}
	}
	for key, pred := range in.Filters {
		if key == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidFilter)
		}
		if pred.IsSet() && len(pred.Set) == 0 {
			return fmt.Errorf("%w: field %q has an empty set, which can never match", ErrInvalidFilter, key)
		}
	}
	return nil
}

// CreateRule validates and persists a new rule.
func (s *Service) CreateRule(ctx context.Context, actor domain.Actor, in RuleInput) (*notifdomain.Rule, error) {
	if err := validateRule(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	rule := &notifdomain.Rule{
		ID:             uuid.NewString(),
		Name:           in.Name,
		RecipientType:  in.RecipientType,
		RecipientID:    in.RecipientID,
		Channels:       in.Channels,
		Filters:        in.Filters,
		OrganizationID: in.OrganizationID,
		Enabled:        in.Enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !s.policy.CanMutate(actor, rule) {
		return nil, ErrAccessDenied
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "notification_rule.created", "notification_rule", rule.ID, rule.Name)
	return rule, nil
}

// UpdateRule validates and replaces the rule's mutable fields.
func (s *Service) UpdateRule(ctx context.Context, actor domain.Actor, ruleID string, in RuleInput) (*notifdomain.Rule, error) {
	if err := validateRule(in); err != nil {
		return nil, err
	}
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("load rule: %w", err)
	}
	if rule == nil {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
	}
	if !s.policy.CanMutate(actor, rule) {
		return nil, ErrAccessDenied
	}

	rule.Name = in.Name
	rule.RecipientType = in.RecipientType
	rule.RecipientID = in.RecipientID
	rule.Channels = in.Channels
	rule.Filters = in.Filters
	rule.OrganizationID = in.OrganizationID
	rule.Enabled = in.Enabled
	rule.UpdatedAt = s.now().UTC()

	// Re-check after rescoping: the actor must also hold the target org.
	if !s.policy.CanMutate(actor, rule) {
		return nil, ErrAccessDenied
	}
	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("update rule: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "notification_rule.updated", "notification_rule", rule.ID, rule.Name)
	return rule, nil
}

// DeleteRule removes the rule.
func (s *Service) DeleteRule(ctx context.Context, actor domain.Actor, ruleID string) error {
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("load rule: %w", err)
	}
	if rule == nil {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
	}
	if !s.policy.CanMutate(actor, rule) {
		return ErrAccessDenied
	}
	if err := s.repo.DeleteRule(ctx, ruleID); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "notification_rule.deleted", "notification_rule", ruleID, rule.Name)
	return nil
}

// ListRules returns the rules the actor may view in the given scope.
func (s *Service) ListRules(ctx context.Context, actor domain.Actor, orgID *string) ([]*notifdomain.Rule, error) {
	rules, err := s.repo.ListRulesByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return access.FilterViewable(s.policy, actor, rules), nil
}

// SetCriticalRecipient subscribes or updates a user on the critical fast path.
// Only platform admins manage the list; it is not tenant-scoped.
func (s *Service) SetCriticalRecipient(ctx context.Context, actor domain.Actor, cr notifdomain.CriticalRecipient) error {
	if !actor.IsPlatformAdmin() {
		return ErrAccessDenied
	}
	if cr.ClerkUserID == "" {
		return errors.New("clerk user id is required")
	}
	if err := s.repo.UpsertCriticalRecipient(ctx, cr); err != nil {
		return fmt.Errorf("upsert critical recipient: %w", err)
	}
	s.audit.LogEvent(ctx, actor.ID, "critical_recipient.set", "critical_recipient", cr.ClerkUserID,
		fmt.Sprintf("enabled=%t", cr.Enabled))
	return nil
}
