// Package service implements the certificate grant lifecycle: expiry
// computation on write, lazy reconciliation on read.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldsafe/backend/internal/certificate/domain"
	"fieldsafe/backend/internal/certificate/repository"
)

// Sentinel errors; integrity errors are always surfaced, never swallowed.
var (
	ErrDefinitionNotFound = errors.New("certificate definition not found")
	ErrGrantNotFound      = errors.New("certificate grant not found")
)

// Service computes grant expiry and reconciles grant status over time.
//
// Reconciliation is lazy: it runs immediately before every grant listing, so
// the staleness window of a grant's status equals the time since the last
// read. There is no ordering dependency on the background sweep in cmd/worker;
// that sweep only bounds staleness for paths that never list.
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// NewService returns a certificate lifecycle service backed by the given repository.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Reconcile transitions every active grant whose expiry is before now to
// expired and returns the number transitioned. Idempotent: a second run finds
// nothing to change.
func (s *Service) Reconcile(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire due grants: %w", err)
	}
	return n, nil
}

// ListGrantsBySubject reconciles due grants, then returns the subject's grants.
func (s *Service) ListGrantsBySubject(ctx context.Context, subjectID string) ([]*domain.Grant, error) {
	if _, err := s.Reconcile(ctx, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.ListGrantsBySubject(ctx, subjectID)
}

// AssignGrant creates a grant of the given definition for the subject.
// The expiry date is computed from the owning definition; a missing definition
// is an integrity error (ErrDefinitionNotFound), never skipped.
func (s *Service) AssignGrant(ctx context.Context, certificateID, subjectID string, achievedDate time.Time, notes string) (*domain.Grant, error) {
	def, err := s.repo.GetDefinitionByID(ctx, certificateID)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, certificateID)
	}

	expiry, err := def.ComputeExpiry(achievedDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g := &domain.Grant{
		ID:            uuid.NewString(),
		CertificateID: certificateID,
		SubjectID:     subjectID,
		AchievedDate:  achievedDate,
		ExpiryDate:    expiry,
		Status:        statusFor(expiry, now),
		Notes:         notes,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateGrant(ctx, g); err != nil {
		return nil, fmt.Errorf("create grant: %w", err)
	}
	return g, nil
}

// UpdateAchievedDate edits a grant's achieved date, recomputes its expiry from
// the owning definition, and recomputes status. Moving the achieved date
// forward so the new expiry lies in the future is the only permitted
// expired -> active transition.
func (s *Service) UpdateAchievedDate(ctx context.Context, grantID string, achievedDate time.Time, notes string) (*domain.Grant, error) {
	g, err := s.repo.GetGrantByID(ctx, grantID)
	if err != nil {
		return nil, fmt.Errorf("load grant: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrGrantNotFound, grantID)
	}

	def, err := s.repo.GetDefinitionByID(ctx, g.CertificateID)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def == nil {
		// Grant referencing a missing definition is an integrity error.
		return nil, fmt.Errorf("%w: %s (referenced by grant %s)", ErrDefinitionNotFound, g.CertificateID, g.ID)
	}

	expiry, err := def.ComputeExpiry(achievedDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g.AchievedDate = achievedDate
	g.ExpiryDate = expiry
	g.Status = statusFor(expiry, now)
	g.Notes = notes
	g.UpdatedAt = now
	if err := s.repo.UpdateGrant(ctx, g); err != nil {
		return nil, fmt.Errorf("update grant: %w", err)
	}
	return g, nil
}

// statusFor derives grant status from the computed expiry: non-expiring and
// future-dated grants are active, past-dated grants are expired.
func statusFor(expiry *time.Time, now time.Time) domain.GrantStatus {
	if expiry != nil && expiry.Before(now) {
		return domain.GrantExpired
	}
	return domain.GrantActive
}
