package repository

import (
	"context"
	"time"

	"fieldsafe/backend/internal/certificate/domain"
)

// Repository defines persistence for certificate definitions and grants.
type Repository interface {
	GetDefinitionByID(ctx context.Context, id string) (*domain.Definition, error)
	ListDefinitions(ctx context.Context) ([]*domain.Definition, error)
	CreateGrant(ctx context.Context, g *domain.Grant) error
	GetGrantByID(ctx context.Context, id string) (*domain.Grant, error)
	ListGrantsBySubject(ctx context.Context, subjectID string) ([]*domain.Grant, error)
	UpdateGrant(ctx context.Context, g *domain.Grant) error
	// ExpireDue transitions every active grant whose expiry date is strictly
	// before now to expired, as one conditional update. Returns the number of
	// grants transitioned. Idempotent; safe to run concurrently.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
