package auth

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"auth-server/internal/shared/redis"
)

const stateKeyPrefix = "oauth:state:"

// RedisStateStore keeps pending state tokens in Redis so callbacks can land
// on any instance. Entries expire server-side via the key TTL.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// NewStateStore picks the Redis-backed store when a connection is available
// and falls back to the in-memory store otherwise.
func NewStateStore(client *redis.Client) StateStore {
	if client != nil {
		return NewRedisStateStore(client)
	}
	return NewMemoryStateStore()
}

func (s *RedisStateStore) Save(ctx context.Context, state string, entry StateEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal state entry: %w", err)
	}

	if err := s.client.Set(ctx, stateKeyPrefix+state, payload, stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store state entry: %w", err)
	}

	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (*StateEntry, error) {
	payload, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, fmt.Errorf("state token not found")
		}
		return nil, fmt.Errorf("failed to read state entry: %w", err)
	}

	var entry StateEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state entry: %w", err)
	}

	return &entry, nil
}
