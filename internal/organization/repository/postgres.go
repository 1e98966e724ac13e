package repository

import (
	"context"
	"database/sql"
	"errors"

	"fieldsafe/backend/internal/organization/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrganizationByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error) {
	var o domain.Org
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// CreateOrganization persists the organization to the database. The organization must have ID set.
func (r *PostgresRepository) CreateOrganization(ctx context.Context, o *domain.Org) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.CreatedAt,
	)
	return err
}

// ListOrganizations returns all organizations ordered by name.
func (r *PostgresRepository) ListOrganizations(ctx context.Context) ([]*domain.Org, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM organizations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Org
	for rows.Next() {
		var o domain.Org
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
