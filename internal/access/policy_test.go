package access

import (
	"testing"

	identitydomain "fieldsafe/backend/internal/identity/domain"
)

// testResource implements Resource for tests.
type testResource struct {
	orgID *string
}

func (r testResource) OrgID() *string { return r.orgID }

func strPtr(s string) *string { return &s }

func actorWith(role identitydomain.GlobalRole, memberships ...identitydomain.OrgMembership) identitydomain.Actor {
	return identitydomain.Actor{ID: "actor-1", GlobalRole: role, Memberships: memberships}
}

func TestCanView_PlatformAdminSeesEverything(t *testing.T) {
	p := NewPolicy()
	resources := []testResource{
		{orgID: nil},
		{orgID: strPtr("org-1")},
		{orgID: strPtr("org-other")},
	}
	for _, role := range []identitydomain.GlobalRole{identitydomain.GlobalRoleAdmin, identitydomain.GlobalRoleSuperAdmin} {
		actor := actorWith(role)
		for _, r := range resources {
			if !p.CanView(actor, r) {
				t.Errorf("CanView(%s, orgID=%v) = false, want true", role, r.orgID)
			}
		}
	}
}

func TestCanView_SharedResourceVisibleToAll(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser) // no memberships at all
	if !p.CanView(actor, testResource{orgID: nil}) {
		t.Error("CanView of unscoped resource should be true for any actor")
	}
}

func TestCanView_ActiveMembershipRequired(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser,
		identitydomain.OrgMembership{OrganizationID: "org-1", Role: "member", Status: identitydomain.MembershipActive},
		identitydomain.OrgMembership{OrganizationID: "org-2", Role: "member", Status: identitydomain.MembershipInvited},
		identitydomain.OrgMembership{OrganizationID: "org-3", Role: "member", Status: identitydomain.MembershipRemoved},
	)

	if !p.CanView(actor, testResource{orgID: strPtr("org-1")}) {
		t.Error("active membership should grant view")
	}
	if p.CanView(actor, testResource{orgID: strPtr("org-2")}) {
		t.Error("invited membership must not grant view")
	}
	if p.CanView(actor, testResource{orgID: strPtr("org-3")}) {
		t.Error("removed membership must not grant view")
	}
	if p.CanView(actor, testResource{orgID: strPtr("org-unrelated")}) {
		t.Error("no membership must not grant view")
	}
}

func TestCanView_NoMembershipsScopedResourceDenied(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser)
	if p.CanView(actor, testResource{orgID: strPtr("org-1")}) {
		t.Error("actor with no active memberships must not view scoped resource")
	}
}

func TestCanMutate_SameRuleAsCanView(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser,
		identitydomain.OrgMembership{OrganizationID: "org-1", Status: identitydomain.MembershipActive},
	)
	cases := []testResource{
		{orgID: nil},
		{orgID: strPtr("org-1")},
		{orgID: strPtr("org-2")},
	}
	for _, r := range cases {
		if p.CanMutate(actor, r) != p.CanView(actor, r) {
			t.Errorf("CanMutate and CanView disagree for orgID=%v", r.orgID)
		}
	}
}

func TestFilterViewable_DropsDeniedKeepsOrder(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser,
		identitydomain.OrgMembership{OrganizationID: "org-1", Status: identitydomain.MembershipActive},
	)
	items := []testResource{
		{orgID: strPtr("org-1")},
		{orgID: strPtr("org-2")},
		{orgID: nil},
		{orgID: strPtr("org-1")},
	}

	got := FilterViewable(p, actor, items)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (denied item dropped, not an error)", len(got))
	}
	if *got[0].orgID != "org-1" || got[1].orgID != nil || *got[2].orgID != "org-1" {
		t.Errorf("FilterViewable reordered or kept wrong items: %v", got)
	}
}

func TestFilterViewable_EmptyInput(t *testing.T) {
	p := NewPolicy()
	actor := actorWith(identitydomain.GlobalRoleUser)
	if got := FilterViewable(p, actor, []testResource{}); len(got) != 0 {
		t.Errorf("FilterViewable of empty slice = %v, want empty", got)
	}
}
