package reslock

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/cloudbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("reslock",
	fx.Provide(Provide),
)

// Provide picks the distributed lock when redis is configured, otherwise
// the in-process one.
func Provide(cfg config.Config, log *zap.Logger) Locker {
	if cfg.RedisLockAddr == "" {
		return NewLocalLocker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisLockAddr,
		Password: cfg.RedisLockPassword,
	})
	log.Info("using distributed resource lock", zap.String("addr", cfg.RedisLockAddr))
	return NewRedisLocker(client, cfg.RedisLockTTL)
}
