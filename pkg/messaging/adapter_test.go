package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanBroker struct {
	mu        sync.Mutex
	ch        chan []byte
	published [][]byte
}

func (b *chanBroker) Publish(_ context.Context, _ string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, _ := message.([]byte)
	if r, ok := message.(interface{ MarshalJSON() ([]byte, error) }); ok {
		raw, _ = r.MarshalJSON()
	}
	b.published = append(b.published, raw)
	return nil
}

func (b *chanBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return b.ch, nil
}

func (b *chanBroker) Close() error { return nil }

func TestBrokerAdapter_SubscribeContinuesAfterHandlerError(t *testing.T) {
	b := &chanBroker{ch: make(chan []byte, 3)}
	a := NewBrokerAdapter(b)

	var got []string
	err := a.Subscribe(context.Background(), "notifications", func(msg []byte) error {
		got = append(got, string(msg))
		if string(msg) == "bad" {
			return errors.New("cannot handle")
		}
		return nil
	})
	require.NoError(t, err)

	b.ch <- []byte("one")
	b.ch <- []byte("bad")
	b.ch <- []byte("two")
	close(b.ch)
	a.Wait()

	assert.Equal(t, []string{"one", "bad", "two"}, got)
}

func TestBrokerAdapter_PublishRawJSON(t *testing.T) {
	b := &chanBroker{}
	a := NewBrokerAdapter(b)

	require.NoError(t, a.Publish(context.Background(), "t", []byte(`{"a":1}`)))
	require.Len(t, b.published, 1)
	assert.JSONEq(t, `{"a":1}`, string(b.published[0]))
}

func TestNopBroker_SubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NopBroker{}.Subscribe(ctx, "x")
	require.NoError(t, err)
	cancel()
	_, open := <-ch
	assert.False(t, open)
}
