package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/mkovacs/citation-judge/internal/pkg/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	client   *redis.Client
	ctx      = context.Background()
	log      *zap.Logger
	cacheTTL time.Duration
)

const recentRunsKeyPrefix = "citation_judge:runs:recent:"

// Init initializes the Redis client. The service runs without Redis; the
// caller decides whether a failed init is fatal (it is not, the listing
// cache just stays cold).
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "",
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return err
	}

	cacheTTL = time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second

	log = zap.L().With(zap.String("component", "redis"))
	log.Info("Redis connected successfully",
		zap.String("addr", cfg.GetRedisAddr()))

	return nil
}

// Enabled reports whether the cache is available
func Enabled() bool {
	return client != nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// GetRecentRuns returns the cached listing payload for a limit, or ok=false
// on a miss (or when the cache is disabled)
func GetRecentRuns(limit int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}

	key := fmt.Sprintf("%s%d", recentRunsKeyPrefix, limit)
	val, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return val, true
}

// SetRecentRuns caches a listing payload for a limit
func SetRecentRuns(limit int, payload []byte) {
	if client == nil {
		return
	}

	key := fmt.Sprintf("%s%d", recentRunsKeyPrefix, limit)
	if err := client.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateRuns drops all cached listings. Called after any write to the
// runs table.
func InvalidateRuns() {
	if client == nil {
		return
	}

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, recentRunsKeyPrefix+"*", 100).Result()
		if err != nil {
			log.Warn("Cache invalidation scan failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}
