package mailer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"github.com/uucee/ClubWebApp/config"
	"github.com/uucee/ClubWebApp/pkg/logger"
)

// Mailer delivers outbound mail. Delivery is best-effort: callers must not
// roll back database work when Send fails.
type Mailer interface {
	Send(subject, body string, to ...string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	// Bounded connect time so a dead relay cannot stall request handling
	d.Timeout = 10 * time.Second
	return &SMTPMailer{dialer: d, from: cfg.MailFrom}
}

func (m *SMTPMailer) Send(subject, body string, to ...string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer is used when SMTP is not configured; it records the message
// instead of delivering it so local development works without a relay.
type LogMailer struct{}

func (LogMailer) Send(subject, body string, to ...string) error {
	if logger.Log != nil {
		logger.Log.Info("mail suppressed (SMTP not configured)",
			zap.String("subject", subject),
			zap.Strings("to", to))
	}
	return nil
}

// FromConfig picks the SMTP mailer when a host is configured and the log
// fallback otherwise.
func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
