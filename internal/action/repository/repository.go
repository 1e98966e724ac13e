package repository

import (
	"context"

	"fieldsafe/backend/internal/action/domain"
)

// Repository defines persistence for incident actions.
type Repository interface {
	CreateAction(ctx context.Context, a *domain.Action) error
	GetActionByID(ctx context.Context, id string) (*domain.Action, error)
	ListActionsByIncident(ctx context.Context, incidentID string) ([]*domain.Action, error)
	UpdateAction(ctx context.Context, a *domain.Action) error
	DeleteAction(ctx context.Context, id string) error
}
