package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefixPending = "nations:transfer:"

// RedisStore shares pending transfers between processes. Expiry is left to
// redis.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ PendingStore = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, initiator int64, p Pending) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling pending transfer: %w", err)
	}

	if err := s.client.Set(ctx, pendingKey(initiator), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving pending transfer: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, initiator int64) (*Pending, error) {
	data, err := s.client.GetDel(ctx, pendingKey(initiator)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("taking pending transfer: %w", err)
	}

	var p Pending
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling pending transfer: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) Delete(ctx context.Context, initiator int64) error {
	if err := s.client.Del(ctx, pendingKey(initiator)).Err(); err != nil {
		return fmt.Errorf("deleting pending transfer: %w", err)
	}
	return nil
}

func pendingKey(initiator int64) string {
	return fmt.Sprintf("%s%d", keyPrefixPending, initiator)
}
