package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// One-time CSRF state tokens expire after this window.
const stateTTL = 10 * time.Minute

type StateEntry struct {
	CreatedAt time.Time `json:"created_at"`
	Provider  string    `json:"provider"`
	UserAgent string    `json:"user_agent"`
}

// StateStore persists pending OAuth state tokens. Consume removes the entry,
// making every state single-use.
type StateStore interface {
	Save(ctx context.Context, state string, entry StateEntry) error
	Consume(ctx context.Context, state string) (*StateEntry, error)
}

type StateManager struct {
	store StateStore
}

func NewStateManager(store StateStore) *StateManager {
	return &StateManager{store: store}
}

// GenerateState creates a new state token and stores it for validation
func (sm *StateManager) GenerateState(ctx context.Context, provider, userAgent string) (string, error) {
	logger := slog.With("component", "state_manager", "operation", "generate", "provider", provider)

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Failed to generate random bytes for state token", "error", err)
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	state := base64.URLEncoding.EncodeToString(b)

	entry := StateEntry{
		CreatedAt: time.Now(),
		Provider:  provider,
		UserAgent: userAgent,
	}
	if err := sm.store.Save(ctx, state, entry); err != nil {
		logger.Error("Failed to store state token", "error", err)
		return "", fmt.Errorf("failed to store state token: %w", err)
	}

	logger.Debug("OAuth state token generated and stored", "state_length", len(state))

	return state, nil
}

// ValidateState checks that the state token exists, has not expired, and was
// issued for the same provider. States are consumed on first use.
func (sm *StateManager) ValidateState(ctx context.Context, state, provider, userAgent string) error {
	logger := slog.With("component", "state_manager", "operation", "validate", "provider", provider)

	if state == "" {
		logger.Warn("Empty state token provided")
		return fmt.Errorf("state token is required")
	}

	entry, err := sm.store.Consume(ctx, state)
	if err != nil {
		logger.Warn("Invalid or expired state token", "error", err)
		return fmt.Errorf("invalid or expired state token")
	}

	if time.Since(entry.CreatedAt) > stateTTL {
		logger.Warn("Expired state token",
			"created_at", entry.CreatedAt,
			"age_minutes", time.Since(entry.CreatedAt).Minutes())
		return fmt.Errorf("state token has expired")
	}

	if entry.Provider != provider {
		logger.Warn("State token provider mismatch",
			"expected_provider", entry.Provider,
			"received_provider", provider)
		return fmt.Errorf("state token provider mismatch")
	}

	if entry.UserAgent != userAgent {
		logger.Warn("State token user agent mismatch - possible session hijacking attempt",
			"stored_user_agent", entry.UserAgent,
			"received_user_agent", userAgent)
	}

	logger.Debug("State token validated successfully",
		"token_age_seconds", time.Since(entry.CreatedAt).Seconds())

	return nil
}

// MemoryStateStore is the fallback StateStore used when Redis is disabled.
type MemoryStateStore struct {
	states map[string]StateEntry
	mutex  sync.Mutex
}

func NewMemoryStateStore() *MemoryStateStore {
	store := &MemoryStateStore{
		states: make(map[string]StateEntry),
	}
	go store.startCleanup()
	return store
}

func (s *MemoryStateStore) Save(_ context.Context, state string, entry StateEntry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.states[state] = entry
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (*StateEntry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.states[state]
	if !exists {
		return nil, fmt.Errorf("state token not found")
	}
	delete(s.states, state)

	return &entry, nil
}

// startCleanup runs a background goroutine to drop expired state tokens
func (s *MemoryStateStore) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanupExpired()
	}
}

func (s *MemoryStateStore) cleanupExpired() {
	logger := slog.With("component", "state_store", "operation", "cleanup_expired")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	expiredCount := 0

	for state, entry := range s.states {
		if now.Sub(entry.CreatedAt) > stateTTL {
			delete(s.states, state)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		logger.Debug("Cleaned up expired state tokens",
			"expired_count", expiredCount,
			"remaining_count", len(s.states))
	}
}
