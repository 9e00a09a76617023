package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/bloodlink/bloodlink-api/internal/config"
)

type flakyDialer struct {
	failures int
	calls    int
	sent     []*gomail.Message
}

func (d *flakyDialer) DialAndSend(m ...*gomail.Message) error {
	d.calls++
	if d.calls <= d.failures {
		return errors.New("connection refused")
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:        "smtp.test",
		From:        "BloodLink <no-reply@bloodlink.test>",
		InitialWait: time.Millisecond,
		MaxElapsed:  time.Second,
	}
}

func TestSMTPService_RetriesUntilDelivered(t *testing.T) {
	d := &flakyDialer{failures: 2}
	svc := NewSMTPService(d, testConfig())

	err := svc.SendNotification(context.Background(), "mary@example.com", "Urgent Blood Request (O-)", "URGENT")
	require.NoError(t, err)
	assert.Equal(t, 3, d.calls)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"[BloodLink] Urgent Blood Request (O-)"}, d.sent[0].GetHeader("Subject"))
}

func TestSMTPService_RequiresRecipient(t *testing.T) {
	svc := NewSMTPService(&flakyDialer{}, testConfig())
	assert.Error(t, svc.SendCustom(context.Background(), "", "s", "b"))
}

func TestNewService_DisabledLogsOnly(t *testing.T) {
	svc := NewService(config.SMTPConfig{})
	assert.NoError(t, svc.SendNotification(context.Background(), "a@b.c", "s", "b"))
}
