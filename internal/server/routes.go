package server

import (
	"log/slog"
	"net/http"

	"auth-server/internal/auth"
	authHandlers "auth-server/internal/auth/handlers"
	"auth-server/internal/auth/providers"
	"auth-server/internal/middleware"
	serverHandlers "auth-server/internal/server/handlers"
	"auth-server/internal/shared/database"
	"auth-server/internal/user"
	userHandlers "auth-server/internal/user/handlers"
)

type Routes struct {
	db           *database.DB
	tokens       *auth.TokenService
	provider     providers.Provider
	loginService *auth.LoginService
	userService  *user.Service
	stateManager *auth.StateManager
}

func NewRoutes(db *database.DB, tokens *auth.TokenService, provider providers.Provider, loginService *auth.LoginService, userService *user.Service, stateManager *auth.StateManager) *Routes {
	return &Routes{
		db:           db,
		tokens:       tokens,
		provider:     provider,
		loginService: loginService,
		userService:  userService,
		stateManager: stateManager,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	meHandler := userHandlers.NewMeHandler()
	kakaoHandler := authHandlers.NewKakaoAuthHandler(r.provider, r.loginService, r.userService, r.stateManager)
	refreshHandler := authHandlers.NewRefreshHandler(r.tokens)
	logoutHandler := authHandlers.NewLogoutHandler()

	requireAuth := middleware.JWTMiddleware(r.tokens)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)

	// Protected endpoints (valid access token required)
	mux.Handle("/api/users/me", requireAuth(meHandler))

	// OAuth endpoints
	mux.HandleFunc("/auth/kakao/login", kakaoHandler.HandleLogin)
	mux.HandleFunc("/auth/kakao/callback", kakaoHandler.HandleCallback)
	mux.Handle("/auth/refresh", refreshHandler)
	mux.Handle("/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health"},
		"protected_endpoints", []string{"/api/users/me"},
		"auth_endpoints", []string{"/auth/kakao/login", "/auth/kakao/callback", "/auth/refresh", "/auth/logout"},
	)

	return mux
}
