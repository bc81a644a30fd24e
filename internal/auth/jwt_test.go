package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-server/internal/shared/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	svc, err := NewTokenService(testSecret, time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsWeakSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty secret", ""},
		{"short secret", "too-short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(tt.secret, time.Hour, 7*24*time.Hour)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeConfiguration, errors.GetType(err))
		})
	}
}

func TestNewTokenServiceRejectsNonPositiveTTL(t *testing.T) {
	_, err := NewTokenService(testSecret, 0, time.Hour)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfiguration, errors.GetType(err))
}

func TestMintAndVerifyRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.MintAccess("555", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "555", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, TokenKindAccess, claims.Kind)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestMintRefreshCarriesMinimalIdentity(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.MintRefresh("555")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "555", claims.Subject)
	assert.Equal(t, TokenKindRefresh, claims.Kind)
	assert.Empty(t, claims.Email)
}

func TestVerifyAtExpiryReturnsExpiredError(t *testing.T) {
	svc := newTestTokenService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.MintAccess("555", "a@b.com")
	require.NoError(t, err)

	// Exactly at issued-at plus TTL the token is already expired; there is
	// no leeway window.
	svc.now = func() time.Time { return issued.Add(time.Hour) }

	claims, err := svc.Verify(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.Equal(t, errors.ErrorTypeTokenExpired, errors.GetType(err))
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.MintAccess("555", "a@b.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := svc.Verify(tampered)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.Equal(t, errors.ErrorTypeTokenSignature, errors.GetType(err))
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		claims, err := svc.Verify(token)
		require.Error(t, err, "token %q", token)
		assert.Nil(t, claims)
		assert.Equal(t, errors.ErrorTypeTokenSignature, errors.GetType(err))
	}
}

func TestVerifyRejectsTokenFromDifferentKey(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour, 7*24*time.Hour)
	require.NoError(t, err)

	token, err := other.MintAccess("555", "")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeTokenSignature, errors.GetType(err))
}

func TestVerifyKindSeparation(t *testing.T) {
	svc := newTestTokenService(t)

	refreshToken, err := svc.MintRefresh("555")
	require.NoError(t, err)

	// Structurally valid, but the kind claim distinguishes it
	claims, err := svc.Verify(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenKindRefresh, claims.Kind)

	_, err = svc.VerifyKind(refreshToken, TokenKindAccess)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeUnauthorized, errors.GetType(err))

	accessToken, err := svc.MintAccess("555", "")
	require.NoError(t, err)

	_, err = svc.VerifyKind(accessToken, TokenKindRefresh)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeUnauthorized, errors.GetType(err))
}

func TestValidCollapsesFailureKinds(t *testing.T) {
	svc := newTestTokenService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.MintAccess("555", "")
	require.NoError(t, err)

	assert.True(t, svc.Valid(token))
	assert.False(t, svc.Valid("garbage"))

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.False(t, svc.Valid(token))
}

func TestSubjectIDRequiresSubject(t *testing.T) {
	claims := &SessionClaims{}

	_, err := claims.SubjectID()
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeTokenSignature, errors.GetType(err))
}
