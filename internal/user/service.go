package user

import (
	"context"
	"log/slog"

	"auth-server/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// FindOrCreateByOAuth records the account behind a successful login, keyed by
// (provider, provider_user_id). Existing accounts get their profile fields
// refreshed from the provider.
func (s *Service) FindOrCreateByOAuth(ctx context.Context, provider, providerUserID string, email, nickname, avatarURL *string) (*User, error) {
	logger := s.logger.With(
		"component", "user_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"provider_user_id", providerUserID,
	)

	user, err := s.repo.FindByProvider(ctx, provider, providerUserID)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNotFound {
		logger.Error("Database error checking for user by provider", "error", err)
		return nil, err
	}

	if user != nil {
		logger.Debug("Found existing user by provider identity", "user_id", user.ID)
		if err := s.repo.UpdateProfile(ctx, user.ID, email, nickname, avatarURL); err != nil {
			logger.Error("Failed to refresh user profile", "error", err)
			return nil, err
		}
		user.Email = email
		user.Nickname = nickname
		user.AvatarURL = avatarURL
		return user, nil
	}

	logger.Info("No existing user found, creating new user from provider profile")

	user, err = s.repo.Create(ctx, provider, providerUserID, email, nickname, avatarURL)
	if err != nil {
		logger.Error("Failed to create user", "error", err)
		return nil, err
	}

	logger.Info("Successfully created new user", "user_id", user.ID)

	return user, nil
}
