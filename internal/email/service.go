package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/pkg/worker"
)

type Service interface {
	SendNotification(ctx context.Context, to, subject, body string) error
	SendWelcome(ctx context.Context, to, name, tempPassword string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer Dialer
	from   string
	retry  worker.RetryConfig
}

// NewService returns an SMTP sender, or a sender that only logs when SMTP
// is not configured.
func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled() {
		return &logService{}
	}
	return NewSMTPService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg)
}

func NewSMTPService(dialer Dialer, cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: dialer,
		from:   cfg.From,
		retry: worker.RetryConfig{
			InitialInterval: cfg.InitialWait,
			MaxElapsedTime:  cfg.MaxElapsed,
		},
	}
}

func (s *smtpService) SendNotification(ctx context.Context, to, subject, body string) error {
	return s.SendCustom(ctx, to, "[BloodLink] "+subject, body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name, tempPassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nA BloodLink account has been created for you.\nTemporary password: %s\n\nPlease change it after your first login.\n",
		name, tempPassword,
	)
	return s.SendCustom(ctx, to, "Welcome to BloodLink", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	err := worker.Retry(ctx, s.retry, "send_email", func() error {
		return s.dialer.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type logService struct{}

func (l *logService) SendNotification(ctx context.Context, to, subject, body string) error {
	return l.SendCustom(ctx, to, subject, body)
}

func (l *logService) SendWelcome(ctx context.Context, to, name, _ string) error {
	return l.SendCustom(ctx, to, "Welcome to BloodLink", name)
}

func (l *logService) SendCustom(_ context.Context, to string, subject string, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("smtp disabled, email not sent")
	return nil
}
