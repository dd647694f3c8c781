package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "chatbot:session:"
	defaultLockTTL   = 10 * time.Second
	lockPollInterval = 50 * time.Millisecond
)

// unlockScript releases a lock only if this holder still owns it
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// RedisStore implements conversation.Store on Redis. Conversations are
// stored as JSON with a TTL, and every Update serializes per session key via
// a SET NX PX lock, so multiple service instances sharing the Redis never
// interleave read-modify-write cycles for the same session.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	lockTTL   time.Duration
}

// RedisStoreOption is a functional option for RedisStore configuration
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides the session key prefix
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.keyPrefix = prefix
	}
}

// WithLockTTL overrides how long a per-session lock may be held before it
// self-expires (crash protection)
func WithLockTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.lockTTL = ttl
	}
}

// NewRedisStore creates a Redis-backed store from an existing client.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration, opts ...RedisStoreOption) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
		lockTTL:   defaultLockTTL,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) lockKey(sessionID string) string {
	return s.keyPrefix + "lock:" + sessionID
}

// Update loads (or creates) the conversation, runs fn, and writes the result
// back, all under the session's distributed lock
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*conversation.Conversation) error) error {
	unlock, err := s.acquireLock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	conv, err := s.load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		conv = conversation.New(sessionID)
	}

	if err := fn(conv); err != nil {
		return err
	}
	return s.save(ctx, conv)
}

// Get returns the session's conversation without taking the lock; readers
// see the last fully committed state
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*conversation.Conversation, error) {
	return s.load(ctx, sessionID)
}

// Remove deletes the session key
func (s *RedisStore) Remove(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*conversation.Conversation, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var conv conversation.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return &conv, nil
}

func (s *RedisStore) save(ctx context.Context, conv *conversation.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(conv.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// acquireLock polls SET NX PX until the session lock is free or the context
// expires. The lock value is unique per holder so the Lua unlock never
// releases someone else's lock after a TTL expiry.
func (s *RedisStore) acquireLock(ctx context.Context, sessionID string) (func(), error) {
	lockKey := s.lockKey(sessionID)
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	for {
		ok, err := s.client.SetNX(ctx, lockKey, val, s.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return func() {
				// Release on a fresh context so cancellation of the request
				// cannot leave the lock held until TTL expiry.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = s.client.Eval(releaseCtx, unlockScript, []string{lockKey}, val).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

// Ensure RedisStore implements conversation.Store
var _ conversation.Store = (*RedisStore)(nil)
