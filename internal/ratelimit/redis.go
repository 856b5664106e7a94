package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "relaybot:ratelimit:"

// RedisLimiter shares the per-chat window between bot replicas. The key lives
// exactly one window, so an accepted request is recorded with SET NX PX.
// Redis failures let the request through.
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis url is empty")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{client: client, logger: logger}
}

func (l *RedisLimiter) TryAcquire(ctx context.Context, chatID int64, window time.Duration) bool {
	if window <= 0 {
		return true
	}

	ok, err := l.client.SetNX(ctx, keyPrefix+strconv.FormatInt(chatID, 10), time.Now().UnixMilli(), window).Result()
	if err != nil {
		l.logger.Warn("[RedisLimiter.TryAcquire] redis error, allowing request", zap.Int64("chat_id", chatID), zap.Error(err))
		return true
	}
	return ok
}
