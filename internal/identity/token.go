// Package identity adapts the external identity provider's session tokens to Actors.
// The platform never issues tokens; it only verifies them against the provider's public key.
package identity

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"fieldsafe/backend/internal/identity/domain"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or its signature is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidKey is returned when the configured public key PEM is invalid.
	ErrInvalidKey = errors.New("invalid key")
)

// membershipClaim mirrors the provider's membership entry in session token claims.
type membershipClaim struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Status         string `json:"status"`
}

// sessionClaims holds the provider's custom claims alongside the registered set.
type sessionClaims struct {
	jwt.RegisteredClaims
	GlobalRole  string            `json:"global_role"`
	Memberships []membershipClaim `json:"memberships"`
}

// Verifier validates identity-provider session tokens and maps claims to Actors.
type Verifier struct {
	publicKey crypto.PublicKey
	issuer    string
}

// NewVerifier returns a Verifier for tokens signed by the provider key (RS256 or ES256).
// pemKey may be inline PEM or a path to a PEM file. issuer, when non-empty, is enforced.
func NewVerifier(pemKey, issuer string) (*Verifier, error) {
	key, err := parsePublicKey(pemKey)
	if err != nil {
		return nil, err
	}
	return &Verifier{publicKey: key, issuer: issuer}, nil
}

// ParseActor verifies the token and maps its claims to an Actor.
// An unknown global role degrades to the plain user role rather than failing:
// the provider is the system of record and may add roles before this service learns them.
func (v *Verifier) ParseActor(tokenString string) (*domain.Actor, error) {
	var claims sessionClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	role := domain.GlobalRole(claims.GlobalRole)
	switch role {
	case domain.GlobalRoleAdmin, domain.GlobalRoleSuperAdmin, domain.GlobalRoleUser:
	default:
		role = domain.GlobalRoleUser
	}

	actor := &domain.Actor{
		ID:          claims.Subject,
		GlobalRole:  role,
		Memberships: make([]domain.OrgMembership, 0, len(claims.Memberships)),
	}
	for _, m := range claims.Memberships {
		actor.Memberships = append(actor.Memberships, domain.OrgMembership{
			OrganizationID: m.OrganizationID,
			Role:           m.Role,
			Status:         domain.MembershipStatus(m.Status),
		})
	}
	return actor, nil
}

// parsePublicKey parses a PEM-encoded RSA or ECDSA public key. s may be inline PEM or a file path.
func parsePublicKey(s string) (crypto.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	pemBytes := []byte(s)
	if !strings.HasPrefix(s, "-----BEGIN") {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, err
		}
		pemBytes = b
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidKey
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	switch key.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return key, nil
	default:
		return nil, ErrInvalidKey
	}
}
