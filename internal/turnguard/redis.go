package turnguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis is a Guard shared by every replica pointed at the same Redis database.
// When Redis is unreachable turns are let through and the failure is logged.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("turn guard connected to Redis")
	return &Redis{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (g *Redis) Begin(ctx context.Context, conversationID string, turn int) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	k := key(conversationID, turn)
	claimed, err := g.client.SetNX(ctx, k, 1, g.ttl).Result()
	if err != nil {
		g.logger.Warn().Err(err).Str("key", k).Msg("turn guard claim failed, allowing turn")
		return nil
	}
	if !claimed {
		return ErrStale
	}
	return nil
}

func (g *Redis) Abort(ctx context.Context, conversationID string, turn int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	k := key(conversationID, turn)
	if err := g.client.Del(ctx, k).Err(); err != nil {
		g.logger.Warn().Err(err).Str("key", k).Msg("turn guard release failed")
	}
}

// Close closes the Redis connection.
func (g *Redis) Close() error {
	return g.client.Close()
}

// HealthCheck pings Redis; the HTTP health endpoint reports it.
func (g *Redis) HealthCheck(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}
