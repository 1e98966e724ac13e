package repository

import (
	"context"

	"fieldsafe/backend/internal/membership/domain"
)

// Repository defines persistence for memberships.
type Repository interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	ListActiveMembersByOrg(ctx context.Context, orgID string) ([]string, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	UpdateStatus(ctx context.Context, userID, orgID string, status domain.Status) error
}
