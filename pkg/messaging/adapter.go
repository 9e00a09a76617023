package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type BrokerAdapter struct {
	broker Broker
	wg     sync.WaitGroup
}

func NewBrokerAdapter(broker Broker) *BrokerAdapter {
	return &BrokerAdapter{broker: broker}
}

func (a *BrokerAdapter) Publish(ctx context.Context, topic string, payload []byte) error {
	return a.broker.Publish(ctx, topic, json.RawMessage(payload))
}

func (a *BrokerAdapter) Close() error {
	return a.broker.Close()
}

// Subscribe delivers every message on topic to handler until ctx ends.
// Handler errors are logged and do not stop the subscription.
func (a *BrokerAdapter) Subscribe(ctx context.Context, topic string, handler func([]byte) error) error {
	msgChan, err := a.broker.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for msg := range msgChan {
			if err := handler(msg); err != nil {
				log.Error().Err(err).Str("topic", topic).Msg("message handler failed")
			}
		}
	}()

	return nil
}

// Wait blocks until every subscription goroutine has drained.
func (a *BrokerAdapter) Wait() {
	a.wg.Wait()
}
