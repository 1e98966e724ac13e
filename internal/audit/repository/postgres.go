package repository

import (
	"context"
	"database/sql"

	"fieldsafe/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log to the database. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ActorID, a.Action, a.ResourceType, a.ResourceID, a.Detail, a.CreatedAt,
	)
	return err
}

// ListByResource returns audit logs for the given resource, newest first, paginated by limit and offset.
func (r *PostgresRepository) ListByResource(ctx context.Context, resourceType, resourceID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, action, resource_type, resource_id, detail, created_at
		   FROM audit_logs
		  WHERE resource_type = $1 AND resource_id = $2
		  ORDER BY created_at DESC
		  LIMIT $3 OFFSET $4`,
		resourceType, resourceID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Action, &a.ResourceType, &a.ResourceID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
