// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"naksha/config"
)

// CacheStore is the cache abstraction used by the services. All operations
// are best effort: callers on write paths log failures and carry on, so a
// cache outage never fails a request the database accepted.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error

	// AcquireLock performs an atomic set-if-absent with TTL and returns an
	// opaque token for safe release. acquired=false means another holder.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	// LockAge reports how long the current holder has held the lock.
	LockAge(ctx context.Context, key string) (time.Duration, bool, error)
	// ReleaseLock deletes the lock only if it still carries token.
	ReleaseLock(ctx context.Context, key, token string) error
}

// CacheClient is the generic Redis cache client.
var CacheClient *redis.Client

// Cache is the process-wide CacheStore. InitCache swaps in a Redis-backed
// store when Redis is reachable; otherwise the system runs in no-cache mode.
var Cache CacheStore = NoopCacheStore{}

// InitCache initializes the Redis cache client. A failed connection degrades
// to no-cache mode instead of aborting startup: reads fall through to the
// database and invalidation becomes a no-op.
func InitCache() {
	logger := GetLogger()
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		logger.Warn("Redis unreachable, running in no-cache mode", zap.Error(err))
		Cache = NoopCacheStore{}
		return
	}
	Cache = &RedisCacheStore{Client: CacheClient}
	logger.Info("Connected to Redis cache", zap.String("addr", config.AppConfig.RedisAddr))
}

// GetCache returns the process-wide cache store.
func GetCache() CacheStore {
	return Cache
}

// RedisCacheStore implements CacheStore on a Redis client.
type RedisCacheStore struct {
	Client *redis.Client
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisCacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}

// DeletePrefix scans for keys under prefix and deletes them in batches.
func (s *RedisCacheStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := s.Client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.Client.Del(ctx, batch...).Err()
	}
	return nil
}

// Lock tokens embed the acquisition time so a contender can judge staleness:
// "<uuid>:<unix-millis>".
func newLockToken(now time.Time) string {
	return fmt.Sprintf("%s:%d", uuid.New().String(), now.UnixMilli())
}

func lockTokenAge(token string, now time.Time) (time.Duration, bool) {
	idx := strings.LastIndex(token, ":")
	if idx < 0 {
		return 0, false
	}
	ms, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return now.Sub(time.UnixMilli(ms)), true
}

func (s *RedisCacheStore) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := newLockToken(time.Now())
	ok, err := s.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisCacheStore) LockAge(ctx context.Context, key string) (time.Duration, bool, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	age, ok := lockTokenAge(val, time.Now())
	if !ok {
		return 0, false, nil
	}
	return age, true, nil
}

// releaseLockScript deletes the lock only when it still holds our token.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (s *RedisCacheStore) ReleaseLock(ctx context.Context, key, token string) error {
	return releaseLockScript.Run(ctx, s.Client, []string{key}, token).Err()
}

// NoopCacheStore is the degraded no-cache mode: every read misses and every
// write succeeds without effect. Locks always acquire, so bulk operations
// fall back to the database's row-level conflicts as the only serializer.
type NoopCacheStore struct{}

func (NoopCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (NoopCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (NoopCacheStore) Delete(ctx context.Context, keys ...string) error { return nil }

func (NoopCacheStore) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func (NoopCacheStore) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return newLockToken(time.Now()), true, nil
}

func (NoopCacheStore) LockAge(ctx context.Context, key string) (time.Duration, bool, error) {
	return 0, false, nil
}

func (NoopCacheStore) ReleaseLock(ctx context.Context, key, token string) error { return nil }
