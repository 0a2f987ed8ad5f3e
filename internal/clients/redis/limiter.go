package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

// Limiter is a fixed-window request counter backed by redis, keyed per
// client. Fail-open: a redis outage never blocks scan traffic.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type limiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewLimiter(log *logger.Logger, limit int, window time.Duration) (Limiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &limiter{
		log:    log.With("service", "RedisLimiter"),
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "ratelimit:scan:",
	}, nil
}

func (l *limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn("rate limit counter unavailable, allowing request", "error", err)
		return true, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn("rate limit expire failed", "key", redisKey, "error", err)
		}
	}
	return count <= int64(l.limit), nil
}

func (l *limiter) Close() error {
	return l.rdb.Close()
}
