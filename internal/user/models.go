package user

import "time"

// User is an account record keyed by its OAuth provider identity. Only the
// account is persisted; issued session tokens stay stateless.
type User struct {
	ID             int       `json:"id"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	Email          *string   `json:"email"`
	Nickname       *string   `json:"nickname"`
	AvatarURL      *string   `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
