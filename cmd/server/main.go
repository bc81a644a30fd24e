package main

import (
	"log"
	"log/slog"
	"net/http"

	"auth-server/internal/auth"
	"auth-server/internal/auth/providers"
	"auth-server/internal/middleware"
	"auth-server/internal/server"
	"auth-server/internal/shared/config"
	"auth-server/internal/shared/database"
	"auth-server/internal/shared/logger"
	"auth-server/internal/shared/redis"
	"auth-server/internal/user"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("Failed to initialize configuration:", err)
	}

	logger.Init()
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis connection", "error", err)
		}
	}()

	tokenService, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize token service:", err)
	}

	kakaoProvider := providers.NewKakaoProvider(cfg.OAuth.Kakao)
	if !cfg.KakaoOAuthConfigured() {
		slog.Warn("Kakao OAuth not configured - missing client credentials")
	}

	stateManager := auth.NewStateManager(auth.NewStateStore(redisClient))
	userService := user.NewService(user.NewRepository(db), slog.Default())
	loginService := auth.NewLoginService(kakaoProvider, tokenService, slog.Default())

	routes := server.NewRoutes(db, tokenService, kakaoProvider, loginService, userService, stateManager)
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slog.Info("Auth server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
	)
	log.Fatal(srv.ListenAndServe())
}
