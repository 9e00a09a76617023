package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// Job is one unit of periodic background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f JobFunc) Name() string                  { return f.JobName }
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

type PeriodicConfig struct {
	Interval time.Duration
	// RunOnStart executes the job once before waiting for the first tick.
	RunOnStart bool
}

// Periodic runs a Job on a ticker until its context is cancelled.
type Periodic struct {
	job     Job
	config  PeriodicConfig
	metrics *metrics.Metrics
}

func NewPeriodic(job Job, config PeriodicConfig, m *metrics.Metrics) (*Periodic, error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%s: interval must be greater than 0", job.Name())
	}
	return &Periodic{job: job, config: config, metrics: m}, nil
}

func (p *Periodic) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	logger := log.With().Str("job", p.job.Name()).Logger()
	logger.Info().Dur("interval", p.config.Interval).Msg("starting periodic job")

	if p.config.RunOnStart {
		p.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down periodic job")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Periodic) runOnce(ctx context.Context) {
	start := time.Now()
	err := p.job.Run(ctx)
	p.metrics.ObserveJob(p.job.Name(), time.Since(start).Seconds(), err)
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Str("job", p.job.Name()).Msg("periodic job failed")
	}
}
