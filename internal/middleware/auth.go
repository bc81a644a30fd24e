package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"auth-server/internal/auth"
	"auth-server/internal/shared/errors"
	"auth-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// JWTMiddleware authenticates requests with a session access token, read from
// the Authorization header or the auth cookie. Refresh tokens are rejected
// here; only the refresh endpoint accepts them.
func JWTMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			tokenString := extractToken(r)
			if tokenString == "" {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.VerifyKind(tokenString, auth.TokenKindAccess)
			if err != nil {
				response.Error(w, r, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			logger.Debug("JWT authentication successful", "subject", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// GetUserFromContext returns the verified claims attached by JWTMiddleware
func GetUserFromContext(r *http.Request) *auth.SessionClaims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.SessionClaims); ok {
		return claims
	}
	return nil
}
