package repository

import (
	"context"
	"database/sql"
	"errors"

	"fieldsafe/backend/internal/action/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an action repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const actionColumns = `id, incident_id, analysis_id, title, description, priority, status,
	action_holder, deadline, ai_suggested, approved_by, approved_at, completed_at,
	organization_id, created_at, updated_at`

// CreateAction persists the action to the database. The action must have ID set.
func (r *PostgresRepository) CreateAction(ctx context.Context, a *domain.Action) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incident_actions
		        (id, incident_id, analysis_id, title, description, priority, status,
		         action_holder, deadline, ai_suggested, approved_by, approved_at, completed_at,
		         organization_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.IncidentID, a.AnalysisID, a.Title, a.Description, a.Priority, a.Status,
		a.ActionHolder, a.Deadline, a.AISuggested, a.ApprovedBy, a.ApprovedAt, a.CompletedAt,
		a.OrganizationID, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetActionByID returns the action for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetActionByID(ctx context.Context, id string) (*domain.Action, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM incident_actions WHERE id = $1`, id)
	a, err := scanAction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListActionsByIncident returns all actions owned by the incident. Ordering is
// the caller's concern (the workflow sort runs in the service layer).
func (r *PostgresRepository) ListActionsByIncident(ctx context.Context, incidentID string) ([]*domain.Action, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+actionColumns+` FROM incident_actions WHERE incident_id = $1`, incidentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAction updates the mutable fields of the action.
func (r *PostgresRepository) UpdateAction(ctx context.Context, a *domain.Action) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE incident_actions
		    SET title = $2, description = $3, priority = $4, status = $5,
		        action_holder = $6, deadline = $7, approved_by = $8, approved_at = $9,
		        completed_at = $10, updated_at = $11
		  WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Priority, a.Status,
		a.ActionHolder, a.Deadline, a.ApprovedBy, a.ApprovedAt,
		a.CompletedAt, a.UpdatedAt,
	)
	return err
}

// DeleteAction removes the action. Incident deletion does not cascade here;
// ownership cleanup is the surrounding store's concern.
func (r *PostgresRepository) DeleteAction(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM incident_actions WHERE id = $1`, id)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAction(s scanner) (*domain.Action, error) {
	var (
		a           domain.Action
		analysisID  sql.NullString
		deadline    sql.NullTime
		approvedBy  sql.NullString
		approvedAt  sql.NullTime
		completedAt sql.NullTime
		orgID       sql.NullString
	)
	err := s.Scan(&a.ID, &a.IncidentID, &analysisID, &a.Title, &a.Description, &a.Priority, &a.Status,
		&a.ActionHolder, &deadline, &a.AISuggested, &approvedBy, &approvedAt, &completedAt,
		&orgID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if analysisID.Valid {
		a.AnalysisID = &analysisID.String
	}
	if deadline.Valid {
		a.Deadline = &deadline.Time
	}
	if approvedBy.Valid {
		a.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		a.ApprovedAt = &approvedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	if orgID.Valid {
		a.OrganizationID = &orgID.String
	}
	return &a, nil
}
