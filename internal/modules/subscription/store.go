package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ceanlio/kuzamo/internal/models"
	"github.com/Ceanlio/kuzamo/internal/pkg/kv"
)

const subscriberKeyPrefix = "subscriber:"

// RedisStore keeps subscriber records in Redis with TTL-based expiry.
// Pending records vanish on their own once the confirmation window lapses.
type RedisStore struct {
	kv *kv.Client
}

func NewRedisStore(c *kv.Client) *RedisStore {
	return &RedisStore{kv: c}
}

func (s *RedisStore) Get(ctx context.Context, email string) (*models.Subscriber, error) {
	raw, err := s.kv.Get(ctx, subscriberKeyPrefix+email)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var sub models.Subscriber
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil, fmt.Errorf("corrupt subscriber record for %s: %w", email, err)
	}
	return &sub, nil
}

func (s *RedisStore) Put(ctx context.Context, sub *models.Subscriber, ttl time.Duration) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, subscriberKeyPrefix+sub.Email, data, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.kv.Del(ctx, subscriberKeyPrefix+email)
}
