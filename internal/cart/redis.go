package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore reads the JSON list of line items the cart service keeps per session
// under "cart:<session id>". Orders only read and clear it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// ForSession binds the store to one session.
func (s *RedisStore) ForSession(sessionID string) Cart {
	return &redisCart{store: s, sessionID: sessionID}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

type redisCart struct {
	store     *RedisStore
	sessionID string
}

func (c *redisCart) Items(ctx context.Context) ([]LineItem, error) {
	return c.store.Load(ctx, c.sessionID)
}

func (c *redisCart) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.sessionID)
}
