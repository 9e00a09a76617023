package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

type stubPurger struct {
	retention time.Duration
	calls     int
	err       error
}

func (s *stubPurger) Cleanup(_ context.Context, retention time.Duration) (int64, error) {
	s.calls++
	s.retention = retention
	return 3, s.err
}

func TestNotificationCleanupWorker(t *testing.T) {
	purger := &stubPurger{}
	w := NewNotificationCleanupWorker(purger, 90)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 90*24*time.Hour, purger.retention)
	assert.Equal(t, "notification_cleanup", w.Name())

	purger.err = errors.New("db down")
	assert.ErrorContains(t, w.Run(context.Background()), "db down")
}

func TestNotificationCleanupWorker_DisabledRetention(t *testing.T) {
	purger := &stubPurger{}
	require.NoError(t, NewNotificationCleanupWorker(purger, 0).Run(context.Background()))
	assert.Zero(t, purger.calls)
}

type stubStock struct {
	low []*model.Inventory
	err error
}

func (s stubStock) CheckLowStock(context.Context) ([]*model.Inventory, error) {
	return s.low, s.err
}

func TestLowStockMonitor(t *testing.T) {
	m := NewLowStockMonitor(stubStock{low: []*model.Inventory{{BloodType: "AB-", Quantity: 1}}})
	assert.NoError(t, m.Run(context.Background()))

	m = NewLowStockMonitor(stubStock{err: errors.New("boom")})
	assert.Error(t, m.Run(context.Background()))
}

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) SendNotification(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *stubMailer) SendWelcome(context.Context, string, string, string) error { return nil }

func (m *stubMailer) SendCustom(context.Context, string, string, string) error { return nil }

func notificationPayload(t *testing.T, address string) []byte {
	t.Helper()
	raw, err := json.Marshal(model.NotificationEvent{
		NotificationID: uuid.New(),
		UserID:         uuid.New(),
		Email:          address,
		Title:          "Urgent Blood Request",
		Message:        "City General Hospital needs O- blood",
		Type:           "urgent_request",
	})
	require.NoError(t, err)
	return raw
}

func TestEmailDispatcher_Handle(t *testing.T) {
	mailer := &stubMailer{}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	d := NewEmailDispatcher(mailer, m)

	require.NoError(t, d.Handle(context.Background(), notificationPayload(t, "mary@example.com")))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "mary@example.com", mailer.sent[0].to)
	assert.Equal(t, "Urgent Blood Request", mailer.sent[0].subject)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("success")))

	require.NoError(t, d.Handle(context.Background(), notificationPayload(t, "")))
	assert.Len(t, mailer.sent, 1)

	assert.Error(t, d.Handle(context.Background(), []byte("{not json")))

	mailer.err = errors.New("smtp down")
	assert.Error(t, d.Handle(context.Background(), notificationPayload(t, "mary@example.com")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("error")))
}

type chanBroker struct {
	messaging.NopBroker
	ch chan []byte
}

func (b chanBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return b.ch, nil
}

func TestEmailDispatcher_Start(t *testing.T) {
	mailer := &stubMailer{}
	broker := chanBroker{ch: make(chan []byte, 1)}
	adapter := messaging.NewBrokerAdapter(broker)

	d := NewEmailDispatcher(mailer, nil)
	require.NoError(t, d.Start(context.Background(), adapter, "notifications"))

	broker.ch <- notificationPayload(t, "john@example.com")
	close(broker.ch)
	adapter.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "john@example.com", mailer.sent[0].to)
}
