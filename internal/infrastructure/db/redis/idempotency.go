package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idem:request:"
	// pendingValue marks a key whose request is still being created.
	pendingValue = "pending"
	// pendingTTL bounds how long a crashed creator can block its key.
	pendingTTL = time.Minute
)

// IdempotencyStore maps Idempotency-Key values to the request they created.
// Key format: idem:request:<requested_by>:<client key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Entries expire after a day.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Reserve claims key with a placeholder using SET NX, so exactly one caller
// owns a fresh key. A losing caller gets the recorded request id, or 0 while
// the placeholder is still in place.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// A key can expire between SET NX and GET; one retry covers it.
	for range 2 {
		ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, pendingValue, pendingTTL).Result()
		if err != nil {
			return false, 0, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return true, 0, nil
		}

		raw, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, 0, fmt.Errorf("idempotency reserve: %w", err)
		}
		if raw == pendingValue {
			return false, 0, nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return false, 0, fmt.Errorf("idempotency reserve: corrupt value %q: %w", raw, err)
		}
		return false, id, nil
	}
	return false, 0, nil
}

// Remember replaces the placeholder under key with requestID and restarts
// the TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, requestID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, idempotencyPrefix+key, strconv.FormatInt(requestID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Release deletes key so a later call can retry with it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
