// seed inserts development sample data for local testing. Run via go run ./cmd/seed.
// Idempotent: skips inserts if the dev organization already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	certdomain "fieldsafe/backend/internal/certificate/domain"
	certrepo "fieldsafe/backend/internal/certificate/repository"
	"fieldsafe/backend/internal/config"
	"fieldsafe/backend/internal/db"
	membershipdomain "fieldsafe/backend/internal/membership/domain"
	membershiprepo "fieldsafe/backend/internal/membership/repository"
	notifdomain "fieldsafe/backend/internal/notification/domain"
	notifrepo "fieldsafe/backend/internal/notification/repository"
	orgdomain "fieldsafe/backend/internal/organization/domain"
	orgrepo "fieldsafe/backend/internal/organization/repository"
)

const (
	devOrgID         = "dev-org-001"
	devUserID        = "dev-user-001"
	devUser2ID       = "dev-user-002"
	devMembershipID  = "dev-membership-001"
	devMembership2ID = "dev-membership-002"
	devRuleID        = "dev-rule-001"
	devCertID        = "dev-cert-001"
	devGrantID       = "dev-grant-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	orgs := orgrepo.NewPostgresRepository(conn)
	members := membershiprepo.NewPostgresRepository(conn)
	rules := notifrepo.NewPostgresRepository(conn)
	certs := certrepo.NewPostgresRepository(conn)

	existing, err := orgs.GetOrganizationByID(ctx, devOrgID)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev org exists). Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()

	if err := orgs.CreateOrganization(ctx, &orgdomain.Org{
		ID:        devOrgID,
		Name:      "Grondwerken Dev BV",
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("create org: %v", err)
	}

	seedMemberships := []*membershipdomain.Membership{
		{
			ID:        devMembershipID,
			UserID:    devUserID,
			OrgID:     devOrgID,
			Role:      membershipdomain.RoleOwner,
			Status:    membershipdomain.StatusActive,
			CreatedAt: now,
		},
		{
			ID:        devMembership2ID,
			UserID:    devUser2ID,
			OrgID:     devOrgID,
			Role:      membershipdomain.RoleMember,
			Status:    membershipdomain.StatusActive,
			CreatedAt: now,
		},
	}
	for _, m := range seedMemberships {
		if err := members.CreateMembership(ctx, m); err != nil {
			log.Fatalf("create membership %s: %v", m.ID, err)
		}
	}

	if err := rules.CreateRule(ctx, &notifdomain.Rule{
		ID:            devRuleID,
		Name:          "critical graafschade & lekkage",
		RecipientType: notifdomain.RecipientOrganization,
		RecipientID:   devOrgID,
		Channels:      []notifdomain.Channel{notifdomain.ChannelEmail, notifdomain.ChannelInApp},
		Filters: notifdomain.Filters{
			"severity": notifdomain.Scalar("critical"),
			"category": notifdomain.OneOf("graafschade", "lekkage"),
		},
		OrganizationID: strptr(devOrgID),
		Enabled:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		log.Fatalf("create rule: %v", err)
	}

	// Definitions are managed outside the grant write path; insert directly.
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO certificate_definitions (id, name, discipline, expires, validity_years, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		devCertID, "VCA Basis", "veiligheid", true, 10, "active",
	); err != nil {
		log.Fatalf("create certificate definition: %v", err)
	}

	achieved := now.AddDate(-1, 0, 0)
	def, err := certs.GetDefinitionByID(ctx, devCertID)
	if err != nil || def == nil {
		log.Fatalf("load certificate definition: %v", err)
	}
	expiry, err := def.ComputeExpiry(achieved)
	if err != nil {
		log.Fatalf("compute expiry: %v", err)
	}
	if err := certs.CreateGrant(ctx, &certdomain.Grant{
		ID:            devGrantID,
		CertificateID: devCertID,
		SubjectID:     devUser2ID,
		AchievedDate:  achieved,
		ExpiryDate:    expiry,
		Status:        certdomain.GrantActive,
		UpdatedAt:     now,
	}); err != nil {
		log.Fatalf("create certificate grant: %v", err)
	}

	if err := rules.UpsertCriticalRecipient(ctx, notifdomain.CriticalRecipient{
		ClerkUserID: devUserID,
		PhoneNumber: strptr("+31600000001"),
		Enabled:     true,
	}); err != nil {
		log.Fatalf("upsert critical recipient: %v", err)
	}

	log.Println("Seed completed successfully.")
}

func strptr(s string) *string { return &s }
