package worker

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	b.MaxElapsedTime = c.MaxElapsedTime
	return backoff.WithContext(b, ctx)
}

// Permanent marks an error that should not be retried.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry calls fn with exponential backoff until it succeeds, returns a
// Permanent error, the elapsed budget runs out or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			return fn()
		},
		cfg.backOff(ctx),
		func(err error, wait time.Duration) {
			log.Warn().
				Err(err).
				Str("op", op).
				Int("attempt", attempt).
				Dur("retry_in", wait).
				Msg("operation failed, retrying")
		},
	)
}
