package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	paymentKeyPrefix = "cashpay:payment:"
	markTTL          = 24 * time.Hour
)

// Guard detects replayed payment callbacks. It is advisory only: the
// database compare-and-set remains the authoritative idempotency barrier,
// the guard just lets repeated callbacks short-circuit cheaply.
type Guard interface {
	// MarkProcessed records the payment reference and reports whether this is
	// the first time it was seen.
	MarkProcessed(ctx context.Context, paymentRef string) (bool, error)
}

// RedisGuard implements Guard with redis SET NX keys.
type RedisGuard struct {
	client *redis.Client
}

// NewRedisGuard constructs RedisGuard over an existing client.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) MarkProcessed(ctx context.Context, paymentRef string) (bool, error) {
	return g.client.SetNX(ctx, paymentKeyPrefix+paymentRef, 1, markTTL).Result()
}

// NoopGuard treats every callback as first-seen. Used when no redis address
// is configured; correctness then rests entirely on the storage layer.
type NoopGuard struct{}

func (NoopGuard) MarkProcessed(context.Context, string) (bool, error) {
	return true, nil
}
