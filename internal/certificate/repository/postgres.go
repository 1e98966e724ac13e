package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fieldsafe/backend/internal/certificate/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a certificate repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetDefinitionByID returns the definition for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetDefinitionByID(ctx context.Context, id string) (*domain.Definition, error) {
	var (
		d        domain.Definition
		validity sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, discipline, expires, validity_years, status
		   FROM certificate_definitions WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Discipline, &d.Expires, &validity, &d.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if validity.Valid {
		d.ValidityYears = int(validity.Int64)
	}
	return &d, nil
}

// ListDefinitions returns all certificate definitions ordered by name.
func (r *PostgresRepository) ListDefinitions(ctx context.Context) ([]*domain.Definition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, discipline, expires, validity_years, status
		   FROM certificate_definitions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Definition
	for rows.Next() {
		var (
			d        domain.Definition
			validity sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Discipline, &d.Expires, &validity, &d.Status); err != nil {
			return nil, err
		}
		if validity.Valid {
			d.ValidityYears = int(validity.Int64)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// CreateGrant persists the grant to the database. The grant must have ID set.
func (r *PostgresRepository) CreateGrant(ctx context.Context, g *domain.Grant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO certificate_grants
		        (id, certificate_id, subject_id, achieved_date, expiry_date, status, notes, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.CertificateID, g.SubjectID, g.AchievedDate, g.ExpiryDate, g.Status, g.Notes, g.UpdatedAt,
	)
	return err
}

// GetGrantByID returns the grant for id, or nil if not found.
func (r *PostgresRepository) GetGrantByID(ctx context.Context, id string) (*domain.Grant, error) {
	var (
		g      domain.Grant
		expiry sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, certificate_id, subject_id, achieved_date, expiry_date, status, notes, updated_at
		   FROM certificate_grants WHERE id = $1`, id,
	).Scan(&g.ID, &g.CertificateID, &g.SubjectID, &g.AchievedDate, &expiry, &g.Status, &g.Notes, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if expiry.Valid {
		g.ExpiryDate = &expiry.Time
	}
	return &g, nil
}

// ListGrantsBySubject returns all grants for the subject ordered by achieved date, newest first.
func (r *PostgresRepository) ListGrantsBySubject(ctx context.Context, subjectID string) ([]*domain.Grant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, certificate_id, subject_id, achieved_date, expiry_date, status, notes, updated_at
		   FROM certificate_grants WHERE subject_id = $1 ORDER BY achieved_date DESC`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Grant
	for rows.Next() {
		var (
			g      domain.Grant
			expiry sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.CertificateID, &g.SubjectID, &g.AchievedDate, &expiry, &g.Status, &g.Notes, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if expiry.Valid {
			g.ExpiryDate = &expiry.Time
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// UpdateGrant updates the grant's achieved date, expiry, status, and notes.
func (r *PostgresRepository) UpdateGrant(ctx context.Context, g *domain.Grant) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE certificate_grants
		    SET achieved_date = $2, expiry_date = $3, status = $4, notes = $5, updated_at = $6
		  WHERE id = $1`,
		g.ID, g.AchievedDate, g.ExpiryDate, g.Status, g.Notes, g.UpdatedAt,
	)
	return err
}

// ExpireDue runs the reconcile sweep as a single conditional update so that
// concurrent sweeps cannot lose updates; the condition makes it idempotent.
func (r *PostgresRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE certificate_grants
		    SET status = 'expired', updated_at = $1
		  WHERE status = 'active' AND expiry_date IS NOT NULL AND expiry_date < $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
