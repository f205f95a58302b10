package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
)

// Client wraps the Redis connection.
// Used as the leader lock for the periodic reconciliation sweep so two
// instances never sweep the same window concurrently.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Sweep leader lock ──

const sweepLockKey = "attendance:sweep:lock"

// AcquireSweepLock takes the sweep leader lock with a TTL.
// Returns false when another instance already holds it.
func (c *Client) AcquireSweepLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, sweepLockKey, owner, ttl).Result()
}

// ReleaseSweepLock releases the lock if this owner still holds it.
func (c *Client) ReleaseSweepLock(ctx context.Context, owner string) error {
	// Compare-and-delete so an expired lock taken over by another
	// instance is never released by the old owner.
	const script = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`
	return c.rdb.Eval(ctx, script, []string{sweepLockKey}, owner).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
