package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var calls int32
	err := Retry(context.Background(), RetryConfig{InitialInterval: time.Millisecond, MaxElapsedTime: time.Second}, "test", func() error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetry_PermanentStops(t *testing.T) {
	var calls int32
	boom := errors.New("bad address")
	err := Retry(context.Background(), RetryConfig{InitialInterval: time.Millisecond, MaxElapsedTime: time.Second}, "test", func() error {
		atomic.AddInt32(&calls, 1)
		return Permanent(boom)
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewPeriodic_RequiresInterval(t *testing.T) {
	_, err := NewPeriodic(JobFunc{JobName: "x", Fn: func(context.Context) error { return nil }}, PeriodicConfig{}, nil)
	assert.Error(t, err)
}

func TestPeriodic_RunsUntilCancelled(t *testing.T) {
	var runs int32
	ctx, cancel := context.WithCancel(context.Background())

	p, err := NewPeriodic(JobFunc{JobName: "tick", Fn: func(context.Context) error {
		if atomic.AddInt32(&runs, 1) >= 3 {
			cancel()
		}
		return nil
	}}, PeriodicConfig{Interval: time.Millisecond, RunOnStart: true}, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic job did not stop")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(3))
}
