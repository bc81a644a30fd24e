package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"auth-server/internal/shared/errors"
)

// TokenKind distinguishes the two session token flavors. Every minted token
// carries exactly one kind in its "type" claim.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// SessionClaims is the claim set embedded in every signed session token.
type SessionClaims struct {
	Email string    `json:"email,omitempty"`
	Kind  TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// SubjectID returns the provider-namespaced subject identity. It operates on
// claims that already passed Verify, so the verify-before-read ordering is
// structural rather than a runtime contract.
func (c *SessionClaims) SubjectID() (string, error) {
	if c.Subject == "" {
		return "", errors.TokenSignature("session token missing subject claim")
	}
	return c.Subject, nil
}
