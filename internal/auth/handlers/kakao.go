package handlers

import (
	"log/slog"
	"net/http"

	"auth-server/internal/auth"
	"auth-server/internal/auth/providers"
	"auth-server/internal/shared/cookies"
	"auth-server/internal/shared/errors"
	"auth-server/internal/shared/response"
	"auth-server/internal/user"
)

type LoginURLResponse struct {
	URL string `json:"url"`
}

type KakaoAuthHandler struct {
	provider    providers.Provider
	login       *auth.LoginService
	userService *user.Service
	states      *auth.StateManager
}

func NewKakaoAuthHandler(provider providers.Provider, login *auth.LoginService, userService *user.Service, states *auth.StateManager) *KakaoAuthHandler {
	return &KakaoAuthHandler{
		provider:    provider,
		login:       login,
		userService: userService,
		states:      states,
	}
}

// HandleLogin returns the provider authorization URL the frontend should
// redirect the user to.
func (h *KakaoAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_login")

	if err := h.provider.Validate(); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	state, err := h.states.GenerateState(r.Context(), name, r.UserAgent())
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	authURL := h.provider.AuthURL(state)

	logger.Info("Generated provider login URL", "provider", name)

	response.Success(w, http.StatusOK, LoginURLResponse{URL: authURL})
}

// HandleCallback processes the provider redirect: validates the one-time
// state, runs the exchange-and-mint pipeline, records the account, and
// returns the session token pair.
func (h *KakaoAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"user_agent", r.UserAgent(),
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	if errorParam != "" {
		logger.Warn("OAuth authorization denied",
			"provider", name,
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		response.Error(w, r, logger, errors.Unauthorized("authorization was denied"))
		return
	}

	if code == "" {
		response.Error(w, r, logger, errors.Validation("missing authorization code"))
		return
	}

	if err := h.states.ValidateState(r.Context(), state, name, r.UserAgent()); err != nil {
		logger.Error("OAuth state validation failed", "error", err, "provider", name)
		response.Error(w, r, logger, errors.Unauthorized("invalid request state"))
		return
	}

	session, err := h.login.Login(r.Context(), code)
	if err != nil {
		// Failure kinds from the pipeline map straight to responses
		response.Error(w, r, logger, err)
		return
	}

	userLogger := logger.With("provider_user_id", session.User.ID)

	_, err = h.userService.FindOrCreateByOAuth(
		r.Context(),
		name,
		session.User.ID,
		optional(session.User.Email),
		optional(session.User.Nickname),
		optional(session.User.ProfileImage),
	)
	if err != nil {
		userLogger.Error("Failed to record user account", "error", err)
		response.Error(w, r, logger, err)
		return
	}

	cookies.SetAuthCookie(w, session.AccessToken)

	userLogger.Info("OAuth authentication successful", "provider", name)

	response.Success(w, http.StatusOK, session)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
