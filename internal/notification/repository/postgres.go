package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fieldsafe/backend/internal/notification/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a notification repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ruleColumns = `id, name, recipient_type, recipient_id, channels, filters, organization_id, enabled, created_at, updated_at`

// CreateRule persists the rule. Channels and filters are stored as jsonb.
func (r *PostgresRepository) CreateRule(ctx context.Context, rule *domain.Rule) error {
	channels, filters, err := encodeRule(rule)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notification_rules (`+ruleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rule.ID, rule.Name, rule.RecipientType, rule.RecipientID,
		channels, filters, rule.OrganizationID, rule.Enabled, rule.CreatedAt, rule.UpdatedAt,
	)
	return err
}

// GetRuleByID returns the rule for id, or nil if not found.
func (r *PostgresRepository) GetRuleByID(ctx context.Context, id string) (*domain.Rule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM notification_rules WHERE id = $1`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rule, err
}

// ListEnabledRules returns every enabled rule; the routing worker loads these
// per consumed event.
func (r *PostgresRepository) ListEnabledRules(ctx context.Context) ([]*domain.Rule, error) {
	return r.listRules(ctx,
		`SELECT `+ruleColumns+` FROM notification_rules WHERE enabled ORDER BY created_at`)
}

// ListRulesByOrg returns the rules scoped to orgID, including shared rules
// (null organization) when orgID is nil.
func (r *PostgresRepository) ListRulesByOrg(ctx context.Context, orgID *string) ([]*domain.Rule, error) {
	if orgID == nil {
		return r.listRules(ctx,
			`SELECT `+ruleColumns+` FROM notification_rules WHERE organization_id IS NULL ORDER BY created_at`)
	}
	return r.listRules(ctx,
		`SELECT `+ruleColumns+` FROM notification_rules WHERE organization_id = $1 ORDER BY created_at`, *orgID)
}

func (r *PostgresRepository) listRules(ctx context.Context, query string, args ...any) ([]*domain.Rule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// UpdateRule updates every mutable rule field.
func (r *PostgresRepository) UpdateRule(ctx context.Context, rule *domain.Rule) error {
	channels, filters, err := encodeRule(rule)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE notification_rules
		    SET name = $2, recipient_type = $3, recipient_id = $4, channels = $5,
		        filters = $6, organization_id = $7, enabled = $8, updated_at = $9
		  WHERE id = $1`,
		rule.ID, rule.Name, rule.RecipientType, rule.RecipientID,
		channels, filters, rule.OrganizationID, rule.Enabled, rule.UpdatedAt,
	)
	return err
}

// DeleteRule removes the rule.
func (r *PostgresRepository) DeleteRule(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notification_rules WHERE id = $1`, id)
	return err
}

// ListCriticalRecipients returns the whole critical fast-path subscription
// list, enabled and disabled alike; the router filters on enabled.
func (r *PostgresRepository) ListCriticalRecipients(ctx context.Context) ([]domain.CriticalRecipient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT clerk_user_id, phone_number, enabled FROM critical_recipients ORDER BY clerk_user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CriticalRecipient
	for rows.Next() {
		var (
			cr    domain.CriticalRecipient
			phone sql.NullString
		)
		if err := rows.Scan(&cr.ClerkUserID, &phone, &cr.Enabled); err != nil {
			return nil, err
		}
		if phone.Valid {
			cr.PhoneNumber = &phone.String
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// UpsertCriticalRecipient inserts or replaces the subscription for the user.
func (r *PostgresRepository) UpsertCriticalRecipient(ctx context.Context, cr domain.CriticalRecipient) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO critical_recipients (clerk_user_id, phone_number, enabled)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (clerk_user_id)
		 DO UPDATE SET phone_number = EXCLUDED.phone_number, enabled = EXCLUDED.enabled`,
		cr.ClerkUserID, cr.PhoneNumber, cr.Enabled,
	)
	return err
}

func encodeRule(rule *domain.Rule) (channels, filters []byte, err error) {
	channels, err = json.Marshal(rule.Channels)
	if err != nil {
		return nil, nil, fmt.Errorf("encode channels: %w", err)
	}
	f := rule.Filters
	if f == nil {
		f = domain.Filters{}
	}
	filters, err = json.Marshal(f)
	if err != nil {
		return nil, nil, fmt.Errorf("encode filters: %w", err)
	}
	return channels, filters, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRule decodes one rule row. Malformed jsonb in channels or filters is a
// configuration error surfaced to the caller, never skipped.
func scanRule(row rowScanner) (*domain.Rule, error) {
	var (
		rule     domain.Rule
		channels []byte
		filters  []byte
		orgID    sql.NullString
	)
	err := row.Scan(&rule.ID, &rule.Name, &rule.RecipientType, &rule.RecipientID,
		&channels, &filters, &orgID, &rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(channels, &rule.Channels); err != nil {
		return nil, fmt.Errorf("rule %s: malformed channels: %w", rule.ID, err)
	}
	if err := json.Unmarshal(filters, &rule.Filters); err != nil {
		return nil, fmt.Errorf("rule %s: malformed filters: %w", rule.ID, err)
	}
	if orgID.Valid {
		rule.OrganizationID = &orgID.String
	}
	return &rule, nil
}
