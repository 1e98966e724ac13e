package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func actionRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "incident_id", "analysis_id", "title", "description",
		"priority", "status", "action_holder", "deadline", "ai_suggested", "approved_by",
		"approved_at", "completed_at", "organization_id", "created_at", "updated_at"}).
		AddRow("act-1", "inc-1", nil, "Herstel gasleiding", "", "high", "approved",
			"user-2", nil, false, "user-1", now, nil, "org-1", now, now)
}

func TestGetActionByIDScansNullables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM incident_actions WHERE id").
		WithArgs("act-1").
		WillReturnRows(actionRow(now))

	repo := NewPostgresRepository(db)
	a, err := repo.GetActionByID(context.Background(), "act-1")
	if err != nil {
		t.Fatalf("GetActionByID: %v", err)
	}
	if a == nil {
		t.Fatal("action is nil")
	}
	if a.AnalysisID != nil || a.Deadline != nil || a.CompletedAt != nil {
		t.Errorf("expected nil analysis/deadline/completed, got %+v", a)
	}
	if a.ApprovedBy == nil || *a.ApprovedBy != "user-1" {
		t.Errorf("ApprovedBy = %v", a.ApprovedBy)
	}
	if a.OrganizationID == nil || *a.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %v", a.OrganizationID)
	}
}

func TestGetActionByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM incident_actions WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPostgresRepository(db)
	a, err := repo.GetActionByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetActionByID: %v", err)
	}
	if a != nil {
		t.Errorf("action = %+v, want nil", a)
	}
}

func TestDeleteAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM incident_actions WHERE id").
		WithArgs("act-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	if err := repo.DeleteAction(context.Background(), "act-1"); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
