package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"auth-server/internal/auth/providers"
	"auth-server/internal/shared/config"
	"auth-server/internal/shared/errors"
)

type fakeProvider struct {
	validateErr error
	token       *oauth2.Token
	exchangeErr error
	profile     *providers.Profile
	profileErr  error

	exchangeCalls int
	profileCalls  int
	gotCode       string
	gotToken      *oauth2.Token
}

func (p *fakeProvider) Name() string { return "kakao" }

func (p *fakeProvider) Validate() error { return p.validateErr }

func (p *fakeProvider) AuthURL(state string) string { return "https://example.com/authorize?state=" + state }

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (*oauth2.Token, error) {
	p.exchangeCalls++
	p.gotCode = code
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.token, nil
}

func (p *fakeProvider) FetchProfile(_ context.Context, token *oauth2.Token) (*providers.Profile, error) {
	p.profileCalls++
	p.gotToken = token
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profile, nil
}

func newTestLoginService(t *testing.T, provider providers.Provider) (*LoginService, *TokenService) {
	t.Helper()

	tokens := newTestTokenService(t)
	return NewLoginService(provider, tokens, slog.Default()), tokens
}

func TestLoginEndToEnd(t *testing.T) {
	provider := &fakeProvider{
		token: &oauth2.Token{AccessToken: "tok123"},
		profile: &providers.Profile{
			ID:       "555",
			Email:    "a@b.com",
			Nickname: "Ann",
		},
	}
	svc, tokens := newTestLoginService(t, provider)

	session, err := svc.Login(context.Background(), "authcode")
	require.NoError(t, err)

	assert.Equal(t, "authcode", provider.gotCode)
	require.NotNil(t, provider.gotToken)
	assert.Equal(t, "tok123", provider.gotToken.AccessToken)

	assert.Equal(t, "555", session.User.ID)
	assert.Equal(t, "a@b.com", session.User.Email)
	assert.Equal(t, "Ann", session.User.Nickname)
	assert.Empty(t, session.User.ProfileImage)
	assert.Equal(t, "kakao", session.User.Provider)

	// Both tokens independently verify with the same subject
	accessClaims, err := tokens.Verify(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "555", accessClaims.Subject)
	assert.Equal(t, "a@b.com", accessClaims.Email)
	assert.Equal(t, TokenKindAccess, accessClaims.Kind)

	refreshClaims, err := tokens.Verify(session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "555", refreshClaims.Subject)
	assert.Empty(t, refreshClaims.Email)
	assert.Equal(t, TokenKindRefresh, refreshClaims.Kind)
}

func TestLoginOptionalProfileFieldsMayBeAbsent(t *testing.T) {
	provider := &fakeProvider{
		token:   &oauth2.Token{AccessToken: "tok123"},
		profile: &providers.Profile{ID: "777"},
	}
	svc, tokens := newTestLoginService(t, provider)

	session, err := svc.Login(context.Background(), "authcode")
	require.NoError(t, err)

	assert.Equal(t, "777", session.User.ID)
	assert.Empty(t, session.User.Email)
	assert.Empty(t, session.User.Nickname)
	assert.Empty(t, session.User.ProfileImage)

	claims, err := tokens.Verify(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "777", claims.Subject)
	assert.Empty(t, claims.Email)
}

func TestLoginConfigGatingSkipsNetworkCalls(t *testing.T) {
	provider := &fakeProvider{
		validateErr: errors.Configurationf("KAKAO_CLIENT_ID is not configured"),
	}
	svc, _ := newTestLoginService(t, provider)

	session, err := svc.Login(context.Background(), "authcode")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, errors.ErrorTypeConfiguration, errors.GetType(err))
	assert.Zero(t, provider.exchangeCalls)
	assert.Zero(t, provider.profileCalls)
}

func TestLoginWithIncompleteKakaoConfig(t *testing.T) {
	// A real provider with an empty client id fails validation before any
	// network call is attempted.
	provider := providers.NewKakaoProvider(config.KakaoOAuthConfig{
		RedirectURI:  "http://localhost:8080/auth/kakao/callback",
		AuthorizeURI: "https://kauth.kakao.com/oauth/authorize",
		TokenURI:     "https://kauth.kakao.com/oauth/token",
		UserInfoURI:  "https://kapi.kakao.com/v2/user/me",
	})
	svc, _ := newTestLoginService(t, provider)

	_, err := svc.Login(context.Background(), "authcode")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfiguration, errors.GetType(err))
}

func TestLoginPropagatesExchangeFailureKind(t *testing.T) {
	provider := &fakeProvider{
		exchangeErr: errors.ProviderExchangef("kakao token endpoint returned status 400"),
	}
	svc, _ := newTestLoginService(t, provider)

	_, err := svc.Login(context.Background(), "authcode")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeProviderExchange, errors.GetType(err))
	assert.Zero(t, provider.profileCalls)
}

func TestLoginPropagatesProfileFailureKind(t *testing.T) {
	provider := &fakeProvider{
		token:      &oauth2.Token{AccessToken: "tok123"},
		profileErr: errors.ProviderProfilef("kakao user info endpoint returned status 401"),
	}
	svc, _ := newTestLoginService(t, provider)

	_, err := svc.Login(context.Background(), "authcode")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeProviderProfile, errors.GetType(err))
	assert.Equal(t, 1, provider.exchangeCalls)
}

func TestLoginPropagatesTimeoutKind(t *testing.T) {
	provider := &fakeProvider{
		exchangeErr: errors.ProviderTimeout("kakao token endpoint timed out"),
	}
	svc, _ := newTestLoginService(t, provider)

	_, err := svc.Login(context.Background(), "authcode")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeProviderTimeout, errors.GetType(err))
}
