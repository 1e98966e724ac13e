package repository

import (
	"context"

	"fieldsafe/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	CreateOrganization(ctx context.Context, o *domain.Org) error
	ListOrganizations(ctx context.Context) ([]*domain.Org, error)
}
