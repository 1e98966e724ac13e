package domain

// GlobalRole is the platform-wide role of an actor, supplied by the identity provider.
type GlobalRole string

const (
	GlobalRoleUser       GlobalRole = "user"
	GlobalRoleAdmin      GlobalRole = "admin"
	GlobalRoleSuperAdmin GlobalRole = "super_admin"
)

// MembershipStatus is the state of an actor's membership in an organization.
// Only active memberships count toward visibility.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipInvited MembershipStatus = "invited"
	MembershipRemoved MembershipStatus = "removed"
)

// OrgMembership links an actor to an organization with a role and status.
type OrgMembership struct {
	OrganizationID string
	Role           string
	Status         MembershipStatus
}

// Actor is the authenticated caller as resolved from the external identity provider:
// a global role plus the set of organization memberships.
type Actor struct {
	ID          string
	GlobalRole  GlobalRole
	Memberships []OrgMembership
}

// IsPlatformAdmin reports whether the actor holds a platform-wide admin role.
func (a Actor) IsPlatformAdmin() bool {
	return a.GlobalRole == GlobalRoleAdmin || a.GlobalRole == GlobalRoleSuperAdmin
}

// ActiveOrgIDs returns the set of organization IDs from active memberships.
// Invited and removed memberships do not grant visibility.
func (a Actor) ActiveOrgIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(a.Memberships))
	for _, m := range a.Memberships {
		if m.Status == MembershipActive {
			out[m.OrganizationID] = struct{}{}
		}
	}
	return out
}
