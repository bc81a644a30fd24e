package auth

import (
	"context"
	"log/slog"

	"auth-server/internal/auth/providers"
)

// UserSummary is the normalized profile returned to the caller alongside the
// token pair. Email, nickname and avatar are optional and omitted when the
// provider did not supply them.
type UserSummary struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Provider     string `json:"provider"`
}

// SessionTokens is the result of a successful login: a signed access/refresh
// token pair plus the normalized user summary. The caller owns it; no
// server-side session state is kept.
type SessionTokens struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
}

// LoginService composes a provider client and a token service into the
// end-to-end code-exchange and token-issuance pipeline. Each invocation is
// independent and stateless.
type LoginService struct {
	provider providers.Provider
	tokens   *TokenService
	logger   *slog.Logger
}

func NewLoginService(provider providers.Provider, tokens *TokenService, logger *slog.Logger) *LoginService {
	logger.Debug("Initializing login service", "provider", provider.Name())

	return &LoginService{
		provider: provider,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login exchanges an authorization code for a provider access token, fetches
// the provider profile, and mints the session token pair. Provider failure
// kinds propagate unchanged so the boundary layer can map them. The two
// outbound calls are strictly sequential; the second depends on the first.
func (s *LoginService) Login(ctx context.Context, code string) (*SessionTokens, error) {
	name := s.provider.Name()
	logger := s.logger.With("component", "login_service", "provider", name)

	// Configuration gaps fail before any network call is made
	if err := s.provider.Validate(); err != nil {
		logger.Error("Provider configuration incomplete", "error", err)
		return nil, err
	}

	providerToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	logger = logger.With("provider_user_id", profile.ID)
	logger.Debug("Minting session token pair",
		"has_email", profile.Email != "",
		"has_nickname", profile.Nickname != "")

	accessToken, err := s.tokens.MintAccess(profile.ID, profile.Email)
	if err != nil {
		logger.Error("Failed to mint access token", "error", err)
		return nil, err
	}

	refreshToken, err := s.tokens.MintRefresh(profile.ID)
	if err != nil {
		logger.Error("Failed to mint refresh token", "error", err)
		return nil, err
	}

	logger.Info("Login completed, session tokens issued")

	return &SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserSummary{
			ID:           profile.ID,
			Email:        profile.Email,
			Nickname:     profile.Nickname,
			ProfileImage: profile.AvatarURL,
			Provider:     name,
		},
	}, nil
}
