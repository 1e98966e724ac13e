package domain

import (
	"time"
)

// Membership links a user to an organization with a role and status.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	Status    Status
	CreatedAt time.Time
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Status tracks the lifecycle of a membership. Only active memberships
// grant visibility or receive organization-wide notifications.
type Status string

const (
	StatusActive  Status = "active"
	StatusInvited Status = "invited"
	StatusRemoved Status = "removed"
)
