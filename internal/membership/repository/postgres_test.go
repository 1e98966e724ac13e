package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fieldsafe/backend/internal/membership/domain"
)

func TestGetMembershipByUserAndOrg_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, org_id, role, status, created_at").
		WithArgs("user-1", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "org_id", "role", "status", "created_at"}))

	repo := NewPostgresRepository(db)
	m, err := repo.GetMembershipByUserAndOrg(context.Background(), "user-1", "org-1")
	if err != nil {
		t.Fatalf("GetMembershipByUserAndOrg: %v", err)
	}
	if m != nil {
		t.Errorf("membership = %+v, want nil for missing row", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListActiveMembersByOrg_FiltersOnStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT user_id FROM memberships WHERE org_id = .+ AND status = 'active'").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1").AddRow("user-2"))

	repo := NewPostgresRepository(db)
	members, err := repo.ListActiveMembersByOrg(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("ListActiveMembersByOrg: %v", err)
	}
	if len(members) != 2 || members[0] != "user-1" || members[1] != "user-2" {
		t.Errorf("members = %v, want [user-1 user-2]", members)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO memberships").
		WithArgs("m1", "user-1", "org-1", "member", "active", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	err = repo.CreateMembership(context.Background(), &domain.Membership{
		ID: "m1", UserID: "user-1", OrgID: "org-1",
		Role: domain.RoleMember, Status: domain.StatusActive, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateMembership: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
