// Package repository persists notification rules and the critical-recipient
// subscription list.
package repository

import (
	"context"

	"fieldsafe/backend/internal/notification/domain"
)

// Repository is the persistence surface the notification service and the
// routing worker depend on.
type Repository interface {
	CreateRule(ctx context.Context, r *domain.Rule) error
	GetRuleByID(ctx context.Context, id string) (*domain.Rule, error)
	ListEnabledRules(ctx context.Context) ([]*domain.Rule, error)
	ListRulesByOrg(ctx context.Context, orgID *string) ([]*domain.Rule, error)
	UpdateRule(ctx context.Context, r *domain.Rule) error
	DeleteRule(ctx context.Context, id string) error

	ListCriticalRecipients(ctx context.Context) ([]domain.CriticalRecipient, error)
	UpsertCriticalRecipient(ctx context.Context, cr domain.CriticalRecipient) error
}
