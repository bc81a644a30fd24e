package user

import (
	"context"
	"database/sql"

	"auth-server/internal/shared/database"
	"auth-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByProvider(ctx context.Context, provider, providerUserID string) (*User, error) {
	query := `
		SELECT id, provider, provider_user_id, email, nickname, avatar_url, created_at, updated_at
		FROM users
		WHERE provider = $1 AND provider_user_id = $2
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(
		&user.ID,
		&user.Provider,
		&user.ProviderUserID,
		&user.Email,
		&user.Nickname,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("user not found for provider %s", provider)
		}
		return nil, errors.WrapInternal("failed to find user by provider", err)
	}

	return &user, nil
}

func (r *Repository) Create(ctx context.Context, provider, providerUserID string, email, nickname, avatarURL *string) (*User, error) {
	query := `
		INSERT INTO users (provider, provider_user_id, email, nickname, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, provider, provider_user_id, email, nickname, avatar_url, created_at, updated_at
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID, email, nickname, avatarURL).Scan(
		&user.ID,
		&user.Provider,
		&user.ProviderUserID,
		&user.Email,
		&user.Nickname,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, errors.WrapInternal("failed to create user", err)
	}

	return &user, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id int, email, nickname, avatarURL *string) error {
	query := `
		UPDATE users
		SET email = $2, nickname = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, email, nickname, avatarURL)
	if err != nil {
		return errors.WrapInternal("failed to update user profile", err)
	}

	return nil
}
