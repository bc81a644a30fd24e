package providers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"auth-server/internal/shared/config"
	"auth-server/internal/shared/errors"
)

const defaultTimeout = 10 * time.Second

type kakaoUserResponse struct {
	ID           int64         `json:"id"`
	KakaoAccount *kakaoAccount `json:"kakao_account"`
}

type kakaoAccount struct {
	Email   string        `json:"email"`
	Profile *kakaoProfile `json:"profile"`
}

type kakaoProfile struct {
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (u *kakaoUserResponse) email() string {
	if u.KakaoAccount == nil {
		return ""
	}
	return u.KakaoAccount.Email
}

func (u *kakaoUserResponse) nickname() string {
	if u.KakaoAccount == nil || u.KakaoAccount.Profile == nil {
		return ""
	}
	return u.KakaoAccount.Profile.Nickname
}

func (u *kakaoUserResponse) avatarURL() string {
	if u.KakaoAccount == nil || u.KakaoAccount.Profile == nil {
		return ""
	}
	return u.KakaoAccount.Profile.ProfileImageURL
}

// KakaoProvider performs the two outbound calls to Kakao: authorization-code
// exchange and profile fetch. The embedded http.Client is stateless and shared
// by read-only reference; each call gets its own deadline.
type KakaoProvider struct {
	cfg        config.KakaoOAuthConfig
	oauth      *oauth2.Config
	timeout    time.Duration
	httpClient *http.Client
}

func NewKakaoProvider(cfg config.KakaoOAuthConfig) *KakaoProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &KakaoProvider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthorizeURI,
				TokenURL: cfg.TokenURI,
				// Kakao expects client credentials in the form body,
				// not in a basic auth header
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (p *KakaoProvider) Name() string { return "kakao" }

// Validate checks that every field needed for an exchange is present.
// A missing field is a configuration error, not a network error, and is
// caught before any call is attempted.
func (p *KakaoProvider) Validate() error {
	switch {
	case p.cfg.ClientID == "":
		return errors.Configurationf("KAKAO_CLIENT_ID is not configured")
	case p.cfg.RedirectURI == "":
		return errors.Configurationf("KAKAO_REDIRECT_URI is not configured")
	case p.cfg.AuthorizeURI == "":
		return errors.Configurationf("KAKAO_AUTHORIZE_URI is not configured")
	case p.cfg.TokenURI == "":
		return errors.Configurationf("KAKAO_TOKEN_URI is not configured")
	case p.cfg.UserInfoURI == "":
		return errors.Configurationf("KAKAO_USER_INFO_URI is not configured")
	}
	return nil
}

func (p *KakaoProvider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a Kakao access token with a
// single form-encoded POST. Exactly one attempt: authorization codes are
// single-use, so a retry would fail anyway.
func (p *KakaoProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	logger := slog.With("provider", "kakao", "operation", "exchange_code")
	logger.Debug("Exchanging authorization code for Kakao access token")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			logger.Error("Kakao token endpoint timed out", "timeout", p.timeout)
			return nil, errors.ProviderTimeout("kakao token endpoint timed out")
		case stderrors.As(err, &retrieveErr):
			status := 0
			if retrieveErr.Response != nil {
				status = retrieveErr.Response.StatusCode
			}
			logger.Error("Kakao token endpoint rejected the exchange", "status_code", status)
			return nil, errors.ProviderExchangef("kakao token endpoint returned status %d", status)
		default:
			logger.Error("Failed to exchange Kakao authorization code", "error", err)
			return nil, errors.WrapProviderExchange("kakao token endpoint request failed", err)
		}
	}

	logger.Debug("Successfully exchanged code for token",
		"token_type", token.TokenType,
		"has_refresh_token", token.RefreshToken != "")

	return token, nil
}

// FetchProfile retrieves the user's Kakao profile with a single authenticated
// GET, using the provider access token as a bearer credential.
func (p *KakaoProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	logger := slog.With("provider", "kakao", "operation", "fetch_profile")
	logger.Debug("Requesting user info from Kakao API")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURI, nil)
	if err != nil {
		return nil, errors.WrapProviderProfile("failed to build kakao user info request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			logger.Error("Kakao user info endpoint timed out", "timeout", p.timeout)
			return nil, errors.ProviderTimeout("kakao user info endpoint timed out")
		}
		logger.Error("Failed to request user info from Kakao", "error", err)
		return nil, errors.WrapProviderProfile("kakao user info request failed", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Kakao API returned error status",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return nil, errors.ProviderProfilef("kakao user info endpoint returned status %d", resp.StatusCode)
	}

	var raw kakaoUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		logger.Error("Failed to decode Kakao user info", "error", err)
		return nil, errors.WrapProviderProfile("failed to decode kakao user info", err)
	}

	if raw.ID == 0 {
		logger.Error("Kakao user info missing user ID")
		return nil, errors.ProviderProfilef("kakao user info missing user ID")
	}

	logger.Debug("Successfully retrieved Kakao user info",
		"user_id", raw.ID,
		"has_email", raw.email() != "",
		"has_nickname", raw.nickname() != "",
		"has_avatar", raw.avatarURL() != "")

	return &Profile{
		ID:        strconv.FormatInt(raw.ID, 10),
		Email:     raw.email(),
		Nickname:  raw.nickname(),
		AvatarURL: raw.avatarURL(),
	}, nil
}
