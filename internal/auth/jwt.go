package auth

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-server/internal/shared/errors"
)

// HS256 needs at least a 256-bit key; shorter secrets would sign but be
// silently weak.
const minSecretLength = 32

// signingKey derives the symmetric HMAC key from the configured secret.
// The derivation is deterministic so tokens minted by one process instance
// validate in another.
func signingKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.Configurationf("JWT secret is required but not set")
	}
	if len(secret) < minSecretLength {
		return nil, errors.Configurationf("JWT secret must be at least %d characters long", minSecretLength)
	}
	return []byte(secret), nil
}

// TokenService mints and verifies signed session tokens. It is safe for
// concurrent use; the key and TTLs are read-only after construction.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	key, err := signingKey(secret)
	if err != nil {
		return nil, err
	}

	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.Configurationf("token TTLs must be positive, got access=%s refresh=%s", accessTTL, refreshTTL)
	}

	if refreshTTL < accessTTL {
		slog.Warn("Refresh token TTL is shorter than access token TTL",
			"access_ttl", accessTTL,
			"refresh_ttl", refreshTTL)
	}

	return &TokenService{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// MintAccess creates a signed access token for the subject, carrying the
// normalized email claim when present.
func (s *TokenService) MintAccess(subject, email string) (string, error) {
	return s.mint(subject, email, TokenKindAccess, s.accessTTL)
}

// MintRefresh creates a signed refresh token. Refresh tokens carry minimal
// identity only, no email claim.
func (s *TokenService) MintRefresh(subject string) (string, error) {
	return s.mint(subject, "", TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) mint(subject, email string, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()

	claims := SessionClaims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.WrapInternal("failed to sign session token", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims. The
// failure kind distinguishes tampered or malformed tokens from expired ones.
// Expiry is compared at one-second granularity with no leeway; issuance and
// verification happen in the same trust domain.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.TokenExpired("session token has expired")
		}
		return nil, errors.WrapTokenSignature("session token is malformed or has an invalid signature", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.TokenSignature("session token claims are invalid")
	}

	return claims, nil
}

// VerifyKind verifies the token and additionally requires its kind claim to
// match. A refresh token is never accepted where an access token is required
// and vice versa.
func (s *TokenService) VerifyKind(tokenString string, kind TokenKind) (*SessionClaims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, errors.Unauthorized(fmt.Sprintf("%s token required, got %s", kind, claims.Kind))
	}
	return claims, nil
}

// Valid reports whether the token currently verifies. All failure kinds are
// deliberately collapsed here; use Verify when the caller needs the claims or
// the failure kind.
func (s *TokenService) Valid(tokenString string) bool {
	_, err := s.Verify(tokenString)
	return err == nil
}
