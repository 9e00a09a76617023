package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// Subscriber is the part of messaging.BrokerAdapter the dispatcher needs.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func([]byte) error) error
}

// EmailDispatcher mails out notifications published on the broker.
type EmailDispatcher struct {
	mailer  email.Service
	metrics *metrics.Metrics
}

func NewEmailDispatcher(mailer email.Service, m *metrics.Metrics) *EmailDispatcher {
	return &EmailDispatcher{mailer: mailer, metrics: m}
}

// Start subscribes to channel. Messages are handled until ctx is cancelled.
func (d *EmailDispatcher) Start(ctx context.Context, sub Subscriber, channel string) error {
	log.Info().Str("channel", channel).Msg("starting email dispatcher")
	return sub.Subscribe(ctx, channel, func(payload []byte) error {
		return d.Handle(ctx, payload)
	})
}

// Handle delivers one NotificationEvent. Events without an address are
// skipped.
func (d *EmailDispatcher) Handle(ctx context.Context, payload []byte) error {
	var event model.NotificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode notification event: %w", err)
	}
	if event.Email == "" {
		log.Debug().Str("notification_id", event.NotificationID.String()).Msg("notification has no recipient address")
		return nil
	}

	err := d.mailer.SendNotification(ctx, event.Email, event.Title, event.Message)
	d.metrics.EmailSent(err)
	if err != nil {
		return err
	}

	log.Info().
		Str("notification_id", event.NotificationID.String()).
		Str("type", event.Type).
		Msg("notification email sent")
	return nil
}
