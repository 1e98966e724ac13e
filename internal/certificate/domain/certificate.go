package domain

import (
	"errors"
	"time"
)

// ErrInvalidValidity is returned when an expiring definition has no positive validity period.
var ErrInvalidValidity = errors.New("expiring certificate definition requires a positive validity period")

// Definition describes a certificate type that can be granted to subjects.
type Definition struct {
	ID         string
	Name       string
	Discipline string
	// Expires controls whether grants of this definition carry an expiry date.
	// When false, ValidityYears is irrelevant and ignored.
	Expires       bool
	ValidityYears int
	Status        string
}

// ComputeExpiry returns the expiry date for a grant achieved on the given date:
// nil for non-expiring definitions, otherwise the achieved date advanced by
// ValidityYears whole calendar years (AddDate semantics: achieving on Feb 29
// lands on Mar 1 in a non-leap target year).
func (d Definition) ComputeExpiry(achieved time.Time) (*time.Time, error) {
	if !d.Expires {
		return nil, nil
	}
	if d.ValidityYears <= 0 {
		return nil, ErrInvalidValidity
	}
	e := achieved.AddDate(d.ValidityYears, 0, 0)
	return &e, nil
}

// GrantStatus is the lifecycle state of a certificate grant.
type GrantStatus string

const (
	GrantActive  GrantStatus = "active"
	GrantExpired GrantStatus = "expired"
)

// Grant assigns a certificate definition to a subject, with its own computed
// expiry independent of the definition.
//
// Invariant: ExpiryDate is nil iff the owning definition does not expire.
// Status degrades active -> expired via reconciliation; the only path back to
// active is editing the achieved date so the recomputed expiry is in the future.
type Grant struct {
	ID            string
	CertificateID string
	SubjectID     string
	AchievedDate  time.Time
	ExpiryDate    *time.Time
	Status        GrantStatus
	Notes         string
	UpdatedAt     time.Time
}
