package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks live sessions so that logout can destroy one before
// its token expires.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	// Lookup returns the owning user id and whether the session is live.
	Lookup(ctx context.Context, sessionID string) (uint, bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

type memorySession struct {
	userID  uint
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between replicas.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memorySession{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sessionID string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, sessionID)
		return 0, false, nil
	}
	return sess.userID, true, nil
}

func (s *MemoryStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL per key.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// DialRedis creates and pings a Redis client with optional password auth.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+sessionID, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (uint, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("session %s: bad user id %q", sessionID, val)
	}
	return uint(id), true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
