package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tixmojo-server/internal/models"
)

const (
	sessionKeyPrefix = "payment:session:"
	lockKeyPrefix    = "payment:lock:"
	lockTTL          = 10 * time.Second
	lockRetryDelay   = 50 * time.Millisecond
	lockMaxRetries   = 40
)

// RedisStore keeps sessions in Redis with the session TTL applied natively,
// so expired entries vanish without a sweep. Update takes a SET NX lock per
// session to get the same read-modify-write exclusion the memory store has.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, now: time.Now}, nil
}

func (r *RedisStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *RedisStore) Put(ctx context.Context, session *models.PaymentSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, r.key(session.SessionID), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Native TTL already reclaimed expired entries, so a miss is
		// indistinguishable from never-existed here.
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var session models.PaymentSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.Expired(r.now()) {
		r.client.Del(ctx, r.key(sessionID))
		return nil, ErrExpired
	}
	return &session, nil
}

func (r *RedisStore) Update(ctx context.Context, sessionID string, fn func(*models.PaymentSession) error) (*models.PaymentSession, error) {
	unlock, err := r.acquireLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.client.Set(ctx, r.key(sessionID), data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set: %w", err)
	}
	return session, nil
}

func (r *RedisStore) acquireLock(ctx context.Context, sessionID string) (func(), error) {
	lockKey := lockKeyPrefix + sessionID
	for i := 0; i < lockMaxRetries; i++ {
		ok, err := r.client.SetNX(ctx, lockKey, "1", lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		if ok {
			return func() { r.client.Del(context.Background(), lockKey) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return nil, fmt.Errorf("could not acquire session lock for %s", sessionID)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

// Sweep is a no-op for Redis; the per-key TTL does the reclaiming.
func (r *RedisStore) Sweep(ctx context.Context) (int, error) {
	return 0, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
