package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/handler/health"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/messaging/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ConnectBroker dials Redis. When Redis is unreachable it logs and falls
// back to a broker that drops messages, so the API keeps serving. The
// returned check reports the Redis connection for the readiness probe and
// is nil for the fallback.
func ConnectBroker(ctx context.Context, cfg config.RedisConfig) (messaging.Broker, health.Check) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	broker, err := redis.NewRedisBroker(dialCtx, redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, notifications will not be published")
		return messaging.NopBroker{}, nil
	}

	if p, ok := broker.(pinger); ok {
		return broker, p.Ping
	}
	return broker, nil
}
