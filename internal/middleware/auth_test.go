package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-server/internal/auth"
)

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()

	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func protectedHandler(t *testing.T, gotSubject *string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		require.NotNil(t, claims)
		*gotSubject = claims.Subject
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddlewareAcceptsBearerAccessToken(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.MintAccess("555", "a@b.com")
	require.NoError(t, err)

	var subject string
	handler := JWTMiddleware(tokens)(protectedHandler(t, &subject))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", subject)
}

func TestJWTMiddlewareAcceptsCookieToken(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.MintAccess("555", "")
	require.NoError(t, err)

	var subject string
	handler := JWTMiddleware(tokens)(protectedHandler(t, &subject))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", subject)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	tokens := newTestTokens(t)
	handler := JWTMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsRefreshToken(t *testing.T) {
	// Structurally valid, wrong kind: refresh tokens never pass where an
	// access token is required.
	tokens := newTestTokens(t)
	token, err := tokens.MintRefresh("555")
	require.NoError(t, err)

	handler := JWTMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsTamperedToken(t *testing.T) {
	tokens := newTestTokens(t)

	handler := JWTMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
