// Package access centralizes the tenant-visibility rule that every handler
// applies before returning or mutating a tenant-scoped record. The rule used
// to live inline at each call site; it is one predicate, decided in one place.
package access

import (
	identitydomain "fieldsafe/backend/internal/identity/domain"
)

// Resource is any tenant-scoped record. A nil organization ID means the record
// is shared (unscoped) and visible to every authenticated actor, not unknown.
type Resource interface {
	OrgID() *string
}

// Policy resolves whether an actor may view or mutate a tenant-scoped resource.
// It is a pure predicate: no I/O, no error path. Absence of access is false;
// callers decide the transport-level signal (forbidden vs. not-found vs. filtered).
type Policy struct{}

// NewPolicy returns the access policy. One value serves all call sites.
func NewPolicy() Policy {
	return Policy{}
}

// CanView reports whether the actor may view the resource.
//
// Platform admins see everything. Unscoped resources are visible to all.
// Otherwise the actor needs an active membership in the resource's organization.
func (Policy) CanView(actor identitydomain.Actor, r Resource) bool {
	if actor.IsPlatformAdmin() {
		return true
	}
	orgID := r.OrgID()
	if orgID == nil {
		return true
	}
	_, ok := actor.ActiveOrgIDs()[*orgID]
	return ok
}

// CanMutate reports whether the actor may modify the resource. The rule is
// identical to CanView; callers layer their own business rules on top
// (e.g. only admins may delete an organization).
func (p Policy) CanMutate(actor identitydomain.Actor, r Resource) bool {
	return p.CanView(actor, r)
}

// FilterViewable returns the subset of items the actor may view, preserving
// order. Listing endpoints filter rather than reject: one denied item must not
// fail an otherwise-valid multi-resource query.
func FilterViewable[T Resource](p Policy, actor identitydomain.Actor, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if p.CanView(actor, item) {
			out = append(out, item)
		}
	}
	return out
}
