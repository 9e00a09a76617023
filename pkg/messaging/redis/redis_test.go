package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBroker(t *testing.T) (*miniredis.Miniredis, *RedisBroker) {
	t.Helper()
	mr := miniredis.RunT(t)

	broker, err := NewRedisBroker(context.Background(), Config{URL: "redis://" + mr.Addr(), PoolSize: 2}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = broker.Close() })

	rb, ok := broker.(*RedisBroker)
	require.True(t, ok)
	return mr, rb
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	_, broker := setupTestBroker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := broker.Subscribe(ctx, "notifications")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, "notifications", map[string]string{"title": "Urgent Blood Request"}))

	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"title":"Urgent Blood Request"}`, string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	for range ch {
	}
}

func TestRedisBroker_Ping(t *testing.T) {
	mr, broker := setupTestBroker(t)

	assert.NoError(t, broker.Ping(context.Background()))

	mr.Close()
	assert.Error(t, broker.Ping(context.Background()))
}

func TestNewRedisBroker_BadURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "://nope"}, zerolog.Nop())
	assert.Error(t, err)
}
