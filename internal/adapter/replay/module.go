package replay

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
)

// Module wires the replay guard. With no redis address configured the
// no-op guard is used and the storage layer alone enforces idempotency.
var Module = fx.Options(
	fx.Provide(newGuard),
	fx.Invoke(registerLifecycle),
)

type guardResult struct {
	fx.Out

	Guard  Guard
	Client *redis.Client
}

func newGuard(cfg *config.Config) guardResult {
	if cfg.RedisAddress == "" {
		return guardResult{Guard: NoopGuard{}}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	return guardResult{Guard: NewRedisGuard(client), Client: client}
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
