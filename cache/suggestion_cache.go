package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/model"
)

// SuggestionCache keeps each user's who-to-follow list in redis for a short
// TTL so repeated visits don't rescan the users collection. A nil cache is
// valid and caches nothing.
type SuggestionCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSuggestionCache(client *redisv9.Client, ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SuggestionCache{client: client, ttl: ttl}
}

func (c *SuggestionCache) Get(ctx context.Context, userID primitive.ObjectID) ([]model.User, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get suggestions failed: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached suggestions failed: %w", err)
	}
	return users, true, nil
}

func (c *SuggestionCache) Set(ctx context.Context, userID primitive.ObjectID, users []model.User) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal suggestions failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set suggestions failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached list after a follow toggle changes who is
// eligible.
func (c *SuggestionCache) Invalidate(ctx context.Context, userID primitive.ObjectID) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete suggestions failed: %w", err)
	}
	return nil
}

func (c *SuggestionCache) key(userID primitive.ObjectID) string {
	return fmt.Sprintf("users:suggestions:%s", userID.Hex())
}
