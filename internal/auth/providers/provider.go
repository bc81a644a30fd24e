package providers

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the normalized user profile returned by an identity provider.
// ID is the provider's stable identity rendered as a string; the remaining
// fields are optional and empty when the provider omits them.
type Profile struct {
	ID        string
	Email     string
	Nickname  string
	AvatarURL string
}

// Provider is the outbound client for one identity provider. Both network
// calls are single-attempt: authorization codes are one-time use and profile
// fetches surface failures immediately rather than retry.
type Provider interface {
	Name() string
	Validate() error
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}
