package repository

import (
	"context"
	"database/sql"
	"errors"

	"fieldsafe/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetMembershipByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, org_id, role, status, created_at
		   FROM memberships WHERE user_id = $1 AND org_id = $2`,
		userID, orgID,
	).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMembershipsByUser returns all memberships for the given user, any status.
func (r *PostgresRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, org_id, role, status, created_at
		   FROM memberships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ListActiveMembersByOrg returns the user IDs of all active members of the given org.
// Invited and removed memberships are excluded; notification fan-out and visibility
// both depend on this filter.
func (r *PostgresRepository) ListActiveMembersByOrg(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM memberships WHERE org_id = $1 AND status = 'active'`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CreateMembership persists the membership to the database. The membership must have ID set.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, org_id, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.UserID, m.OrgID, m.Role, m.Status, m.CreatedAt,
	)
	return err
}

// UpdateStatus sets the status of the membership for the given user and org.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, userID, orgID string, status domain.Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET status = $3 WHERE user_id = $1 AND org_id = $2`,
		userID, orgID, status,
	)
	return err
}
